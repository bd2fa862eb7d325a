package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
	"github.com/vaultpass/passgen-go/internal/service"
)

var version = "dev" // set by the linker

var errSecretRequired = errors.New("an auth secret is required (--secret or PASSGEN_AUTH_SECRET)")

type deps struct {
	svc  *service.GeneratorService
	copy func(string) error
}

// newRootCmd builds a fresh command tree with its own viper instance so tests
// can run commands in isolation.
func newRootCmd(d deps) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("PASSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:   "passgen",
		Short: "Generate random passwords from letters, digits and symbols.",
		Long: `passgen prints passwords drawn uniformly from A-Z and a-z, plus the
digits 0-9 with --numbers and the symbols !@#$%^&*-_+ with --symbols.

Every flag can also be set through the environment, e.g. PASSGEN_LENGTH=16.`,
		Version:      version,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, v, d)
		},
	}

	flags := cmd.Flags()
	flags.IntP("length", "l", crypto.DefaultLength,
		fmt.Sprintf("password length (recommended %d-%d)", crypto.MinRecommendedLength, crypto.MaxRecommendedLength))
	flags.BoolP("numbers", "n", false, "include digits")
	flags.BoolP("symbols", "s", false, "include symbols")
	flags.IntP("count", "c", 1, "number of passwords to print")
	flags.Bool("copy", false, "copy the first password to the clipboard")
	flags.Bool("hash", false, "print an Argon2id hash after each password")

	for _, name := range []string{"length", "numbers", "symbols", "count", "copy", "hash"} {
		mustBindPFlag(v, name, flags, name)
	}

	cmd.AddCommand(newPoolCmd(v, d))
	cmd.AddCommand(newTokenCmd(v))

	return cmd
}

func runGenerate(cmd *cobra.Command, v *viper.Viper, d deps) error {
	length := v.GetInt("length")
	numbers := v.GetBool("numbers")
	symbols := v.GetBool("symbols")

	resp, err := d.svc.Generate(model.GenerateRequest{
		Length:  &length,
		Numbers: &numbers,
		Symbols: &symbols,
		Count:   v.GetInt("count"),
		Hash:    v.GetBool("hash"),
	})
	if err != nil {
		return err
	}

	if resp.Warning != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", resp.Warning)
	}

	passwords := resp.Passwords
	if len(passwords) == 0 {
		passwords = []string{resp.Password}
	}

	out := cmd.OutOrStdout()
	for i, p := range passwords {
		if resp.Hashes != nil {
			fmt.Fprintf(out, "%s\t%s\n", p, resp.Hashes[i])
			continue
		}
		fmt.Fprintln(out, p)
	}

	if v.GetBool("copy") {
		if err := d.copy(resp.Password); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
	}

	return nil
}

func newPoolCmd(v *viper.Viper, d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool",
		Short: "Print the characters a password would be drawn from.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp := d.svc.Pool(v.GetBool("pool.numbers"), v.GetBool("pool.symbols"))
			fmt.Fprintln(cmd.OutOrStdout(), resp.Pool)
			return nil
		},
	}

	cmd.Flags().BoolP("numbers", "n", false, "include digits")
	cmd.Flags().BoolP("symbols", "s", false, "include symbols")
	mustBindPFlag(v, "pool.numbers", cmd.Flags(), "numbers")
	mustBindPFlag(v, "pool.symbols", cmd.Flags(), "symbols")

	return cmd
}

func newTokenCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <client>",
		Short: "Issue a bearer token for the passgen HTTP API.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secret := v.GetString("auth-secret")
			if secret == "" {
				return errSecretRequired
			}
			expiry := v.GetDuration("token-expiry")
			if expiry <= 0 {
				return fmt.Errorf("token expiry must be positive, got %s", expiry)
			}

			token, err := crypto.GenerateToken(args[0], secret, expiry)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().String("secret", "", "HMAC secret shared with the server's AUTH_SECRET")
	cmd.Flags().Duration("expiry", 24*time.Hour, "token lifetime")
	mustBindPFlag(v, "auth-secret", cmd.Flags(), "secret")
	mustBindPFlag(v, "token-expiry", cmd.Flags(), "expiry")

	return cmd
}

// mustBindPFlag binds key to the named flag. A missing flag is a wiring bug,
// so it panics instead of silently leaving the key unbound.
func mustBindPFlag(v *viper.Viper, key string, flags *pflag.FlagSet, name string) {
	flag := flags.Lookup(name)
	if flag == nil {
		panic(fmt.Sprintf("passgen: flag --%s is not defined", name))
	}
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("passgen: binding --%s to %q: %v", name, key, err))
	}
}
