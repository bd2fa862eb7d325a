package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"
)

const (
	letterChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	numberChars = "0123456789"
	symbolChars = "!@#$%^&*-_+"

	DefaultLength = 8

	// MinRecommendedLength and MaxRecommendedLength bound the lengths hosts
	// should offer. They are advisory; Generate accepts any positive length.
	MinRecommendedLength = 6
	MaxRecommendedLength = 32
)

var (
	ErrInvalidConfiguration = errors.New("password length must be a positive integer")
	ErrEmptyPool            = errors.New("character pool is empty")
)

// GeneratorOptions configures the password generator.
// Letters are always part of the pool; digits and symbols are optional.
type GeneratorOptions struct {
	Length  int
	Numbers bool
	Symbols bool
}

// DefaultOptions returns 8 characters drawn from letters only.
func DefaultOptions() GeneratorOptions {
	return GeneratorOptions{Length: DefaultLength}
}

// Source produces uniformly distributed integers in [0, n).
type Source interface {
	Intn(n int) (int, error)
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// SecureSource draws from crypto/rand and is safe for concurrent use.
var SecureSource Source = cryptoSource{}

// Generator samples passwords from a Source.
type Generator struct {
	src Source
}

// NewGenerator returns a Generator using src, or SecureSource if src is nil.
func NewGenerator(src Source) *Generator {
	if src == nil {
		src = SecureSource
	}
	return &Generator{src: src}
}

var defaultGenerator = NewGenerator(nil)

// Generate creates a cryptographically secure random password based on the given options.
func Generate(opts GeneratorOptions) (string, error) {
	return defaultGenerator.Generate(opts)
}

// Generate creates a password of exactly opts.Length characters, each drawn
// independently and uniformly from BuildPool(opts).
func (g *Generator) Generate(opts GeneratorOptions) (string, error) {
	if opts.Length <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidConfiguration, opts.Length)
	}
	return sample(g.src, BuildPool(opts), opts.Length)
}

// BuildPool returns the characters eligible for sampling: letters, then
// digits if enabled, then symbols if enabled.
func BuildPool(opts GeneratorOptions) string {
	var b strings.Builder
	b.Grow(len(letterChars) + len(numberChars) + len(symbolChars))

	b.WriteString(letterChars)
	if opts.Numbers {
		b.WriteString(numberChars)
	}
	if opts.Symbols {
		b.WriteString(symbolChars)
	}
	return b.String()
}

// GenerateFromPool samples length characters from an arbitrary pool.
// Duplicate characters in pool are dropped, keeping the first occurrence,
// so every distinct character is equally likely. The pool must be valid UTF-8.
func GenerateFromPool(src Source, pool string, length int) (string, error) {
	if src == nil {
		src = SecureSource
	}
	if length <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidConfiguration, length)
	}
	if !utf8.ValidString(pool) {
		return "", fmt.Errorf("%w: pool is not valid UTF-8", ErrInvalidConfiguration)
	}
	return sample(src, dedupe(pool), length)
}

func sample(src Source, pool string, length int) (string, error) {
	chars := []rune(pool)
	if len(chars) == 0 {
		return "", ErrEmptyPool
	}

	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		idx, err := src.Intn(len(chars))
		if err != nil {
			return "", fmt.Errorf("drawing random index: %w", err)
		}
		if idx < 0 || idx >= len(chars) {
			return "", fmt.Errorf("drawing random index: %d out of range [0, %d)", idx, len(chars))
		}
		b.WriteRune(chars[idx])
	}
	return b.String(), nil
}

func dedupe(pool string) string {
	seen := make(map[rune]struct{}, len(pool))
	var b strings.Builder
	for _, r := range pool {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		b.WriteRune(r)
	}
	return b.String()
}
