package crypto

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

// seqSource returns the configured values in order, wrapping around,
// and records every bound it was asked for.
type seqSource struct {
	vals []int
	i    int
	ns   []int
}

func (s *seqSource) Intn(n int) (int, error) {
	s.ns = append(s.ns, n)
	v := s.vals[s.i%len(s.vals)]
	s.i++
	if v >= n {
		return 0, errors.New("value out of range for requested bound")
	}
	return v, nil
}

type failingSource struct{}

func (failingSource) Intn(int) (int, error) { return 0, errors.New("entropy exhausted") }

type outOfRangeSource struct{}

func (outOfRangeSource) Intn(n int) (int, error) { return n, nil }

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		opts    GeneratorOptions
		wantErr error
	}{
		{
			name: "default options",
			opts: DefaultOptions(),
		},
		{
			name: "all options enabled",
			opts: GeneratorOptions{Length: 32, Numbers: true, Symbols: true},
		},
		{
			name: "numbers only",
			opts: GeneratorOptions{Length: 16, Numbers: true},
		},
		{
			name: "symbols only",
			opts: GeneratorOptions{Length: 16, Symbols: true},
		},
		{
			name: "single character",
			opts: GeneratorOptions{Length: 1},
		},
		{
			name: "beyond recommended maximum",
			opts: GeneratorOptions{Length: 256, Numbers: true},
		},
		{
			name:    "zero length",
			opts:    GeneratorOptions{Length: 0},
			wantErr: ErrInvalidConfiguration,
		},
		{
			name:    "negative length",
			opts:    GeneratorOptions{Length: -4, Numbers: true},
			wantErr: ErrInvalidConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Generate(tt.opts)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
				}
				if result != "" {
					t.Error("Generate() should return empty string on error")
				}
				return
			}

			if err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if len(result) != tt.opts.Length {
				t.Errorf("Generate() length = %d, want %d", len(result), tt.opts.Length)
			}
		})
	}
}

func TestGenerateUsesOnlyPoolCharacters(t *testing.T) {
	tests := []struct {
		name    string
		opts    GeneratorOptions
		allowed string
	}{
		{"letters only", GeneratorOptions{Length: 32}, letterChars},
		{"letters and numbers", GeneratorOptions{Length: 32, Numbers: true}, letterChars + numberChars},
		{"letters and symbols", GeneratorOptions{Length: 32, Symbols: true}, letterChars + symbolChars},
		{"everything", GeneratorOptions{Length: 32, Numbers: true, Symbols: true}, letterChars + numberChars + symbolChars},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 50; i++ {
				password, err := Generate(tt.opts)
				if err != nil {
					t.Fatalf("Generate() unexpected error: %v", err)
				}
				for _, ch := range password {
					if !strings.ContainsRune(tt.allowed, ch) {
						t.Fatalf("password contains unexpected character %q (not in %q)", string(ch), tt.allowed)
					}
				}
			}
		})
	}
}

func TestGenerateDefaultIsEightLetters(t *testing.T) {
	password, err := Generate(GeneratorOptions{Length: 8})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if len(password) != 8 {
		t.Fatalf("Generate() length = %d, want 8", len(password))
	}
	if strings.ContainsAny(password, numberChars+symbolChars) {
		t.Errorf("password %q contains non-letter characters", password)
	}
}

func TestGenerateNumbersAppearOverManyTrials(t *testing.T) {
	opts := GeneratorOptions{Length: 8, Numbers: true}

	for i := 0; i < 1000; i++ {
		password, err := Generate(opts)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if strings.ContainsAny(password, numberChars) {
			return
		}
	}
	t.Error("no digit observed in 1000 passwords with numbers enabled")
}

func TestGenerateProducesUniquePasswords(t *testing.T) {
	opts := GeneratorOptions{Length: 16, Numbers: true, Symbols: true}
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		password, err := Generate(opts)
		if err != nil {
			t.Fatalf("Generate() unexpected error: %v", err)
		}
		if seen[password] {
			t.Errorf("duplicate password generated: %q", password)
		}
		seen[password] = true
	}
}

func TestGeneratorWithSource(t *testing.T) {
	g := NewGenerator(&seqSource{vals: []int{0, 25, 26, 51, 52, 61, 62, 72}})

	password, err := g.Generate(GeneratorOptions{Length: 8, Numbers: true, Symbols: true})
	if err != nil {
		t.Fatalf("Generate() unexpected error: %v", err)
	}
	if want := "AZaz09!+"; password != want {
		t.Errorf("Generate() = %q, want %q", password, want)
	}
}

func TestGeneratorSourceErrors(t *testing.T) {
	_, err := NewGenerator(failingSource{}).Generate(DefaultOptions())
	if err == nil || !strings.Contains(err.Error(), "entropy exhausted") {
		t.Errorf("Generate() error = %v, want wrapped source error", err)
	}

	_, err = NewGenerator(outOfRangeSource{}).Generate(DefaultOptions())
	if err == nil {
		t.Error("Generate() expected error for out of range index")
	}
}

func TestGenerateConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 32)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(length int) {
			defer wg.Done()
			password, err := Generate(GeneratorOptions{Length: length, Numbers: true})
			if err != nil {
				errs <- err
				return
			}
			if len(password) != length {
				errs <- errors.New("wrong length under concurrency")
			}
		}(6 + i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestBuildPool(t *testing.T) {
	tests := []struct {
		name string
		opts GeneratorOptions
		want string
	}{
		{"letters", GeneratorOptions{}, letterChars},
		{"numbers", GeneratorOptions{Numbers: true}, letterChars + "0123456789"},
		{"symbols", GeneratorOptions{Symbols: true}, letterChars + "!@#$%^&*-_+"},
		{"both", GeneratorOptions{Numbers: true, Symbols: true}, letterChars + "0123456789!@#$%^&*-_+"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildPool(tt.opts)
			if got != tt.want {
				t.Errorf("BuildPool() = %q, want %q", got, tt.want)
			}
			if again := BuildPool(tt.opts); again != got {
				t.Errorf("BuildPool() not deterministic: %q then %q", got, again)
			}
		})
	}

	if n := len(BuildPool(GeneratorOptions{})); n != 52 {
		t.Errorf("base pool size = %d, want 52", n)
	}
}

func TestBuildPoolIgnoresLength(t *testing.T) {
	a := BuildPool(GeneratorOptions{Length: 6, Numbers: true})
	b := BuildPool(GeneratorOptions{Length: 32, Numbers: true})
	if a != b {
		t.Errorf("BuildPool() depends on length: %q vs %q", a, b)
	}
}

func TestGenerateFromPool(t *testing.T) {
	_, err := GenerateFromPool(nil, "", 8)
	if !errors.Is(err, ErrEmptyPool) {
		t.Errorf("GenerateFromPool() error = %v, want %v", err, ErrEmptyPool)
	}

	_, err = GenerateFromPool(nil, "abc", 0)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("GenerateFromPool() error = %v, want %v", err, ErrInvalidConfiguration)
	}

	password, err := GenerateFromPool(&seqSource{vals: []int{0, 1, 2}}, "aabbc", 3)
	if err != nil {
		t.Fatalf("GenerateFromPool() unexpected error: %v", err)
	}
	if password != "abc" {
		t.Errorf("GenerateFromPool() = %q, want %q", password, "abc")
	}
}

func TestGeneratorDrawsOverWholePool(t *testing.T) {
	tests := []struct {
		name string
		opts GeneratorOptions
		want int
	}{
		{"letters", GeneratorOptions{Length: 5}, 52},
		{"letters and numbers", GeneratorOptions{Length: 5, Numbers: true}, 62},
		{"letters and symbols", GeneratorOptions{Length: 5, Symbols: true}, 63},
		{"everything", GeneratorOptions{Length: 5, Numbers: true, Symbols: true}, 73},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &seqSource{vals: []int{0, 51}}
			if _, err := NewGenerator(src).Generate(tt.opts); err != nil {
				t.Fatalf("Generate() unexpected error: %v", err)
			}
			if len(src.ns) != tt.opts.Length {
				t.Fatalf("source called %d times, want %d", len(src.ns), tt.opts.Length)
			}
			for i, n := range src.ns {
				if n != tt.want {
					t.Errorf("draw %d bound = %d, want %d", i, n, tt.want)
				}
			}
		})
	}
}

func TestGenerateFromPoolRejectsInvalidUTF8(t *testing.T) {
	_, err := GenerateFromPool(nil, "ab\xff\xfe", 4)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("GenerateFromPool() error = %v, want %v", err, ErrInvalidConfiguration)
	}

	password, err := GenerateFromPool(&seqSource{vals: []int{0, 1}}, "äö", 2)
	if err != nil {
		t.Fatalf("GenerateFromPool() unexpected error: %v", err)
	}
	if password != "äö" {
		t.Errorf("GenerateFromPool() = %q, want %q", password, "äö")
	}
}
