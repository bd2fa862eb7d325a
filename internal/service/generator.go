package service

import (
	"errors"
	"fmt"

	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/model"
)

const (
	MaxCount = 100

	// MaxLength caps the length hosts accept. Longer requests are rejected,
	// never shortened.
	MaxLength = 1024

	// MaxHashCount caps how many passwords one request may have hashed,
	// since each Argon2id run costs 64 MiB.
	MaxHashCount = 10
)

var (
	ErrInvalidCount  = fmt.Errorf("count must be between 1 and %d", MaxCount)
	ErrLengthTooLong = fmt.Errorf("password length must be at most %d", MaxLength)
	ErrTooManyHashes = fmt.Errorf("at most %d passwords can be hashed per request", MaxHashCount)
)

// GeneratorService handles password generation business logic.
type GeneratorService struct {
	gen  *crypto.Generator
	hash func(string) (string, error)
}

// Option customizes a GeneratorService.
type Option func(*GeneratorService)

// WithSource makes the service sample from src instead of crypto/rand.
func WithSource(src crypto.Source) Option {
	return func(s *GeneratorService) { s.gen = crypto.NewGenerator(src) }
}

// WithHasher replaces the Argon2id hasher used when a request asks for hashes.
func WithHasher(fn func(string) (string, error)) Option {
	return func(s *GeneratorService) { s.hash = fn }
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(opts ...Option) *GeneratorService {
	s := &GeneratorService{
		gen:  crypto.NewGenerator(nil),
		hash: crypto.HashPassword,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate produces one or more passwords based on the given request.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	opts := crypto.GeneratorOptions{
		Length:  intOrDefault(req.Length, crypto.DefaultLength),
		Numbers: boolOrDefault(req.Numbers, false),
		Symbols: boolOrDefault(req.Symbols, false),
	}

	count := req.Count
	if count == 0 {
		count = 1
	}
	if count < 0 || count > MaxCount {
		return model.GenerateResponse{}, ErrInvalidCount
	}
	if opts.Length > MaxLength {
		return model.GenerateResponse{}, ErrLengthTooLong
	}
	if req.Hash && count > MaxHashCount {
		return model.GenerateResponse{}, ErrTooManyHashes
	}

	passwords := make([]string, 0, count)
	for i := 0; i < count; i++ {
		password, err := s.gen.Generate(opts)
		if err != nil {
			return model.GenerateResponse{}, err
		}
		passwords = append(passwords, password)
	}

	resp := model.GenerateResponse{
		Password: passwords[0],
		Length:   opts.Length,
		PoolSize: len(crypto.BuildPool(opts)),
		Warning:  lengthWarning(opts.Length),
	}
	if count > 1 {
		resp.Passwords = passwords
	}

	if req.Hash {
		resp.Hashes = make([]string, len(passwords))
		for i, p := range passwords {
			h, err := s.hash(p)
			if err != nil {
				return model.GenerateResponse{}, fmt.Errorf("hashing password: %w", err)
			}
			resp.Hashes[i] = h
		}
	}

	return resp, nil
}

// Pool returns the character pool for the given class options.
func (s *GeneratorService) Pool(numbers, symbols bool) model.PoolResponse {
	pool := crypto.BuildPool(crypto.GeneratorOptions{Numbers: numbers, Symbols: symbols})
	return model.PoolResponse{Pool: pool, Size: len(pool)}
}

// IsValidationError reports whether err was caused by the caller's input.
func IsValidationError(err error) bool {
	return errors.Is(err, crypto.ErrInvalidConfiguration) ||
		errors.Is(err, crypto.ErrEmptyPool) ||
		errors.Is(err, ErrInvalidCount) ||
		errors.Is(err, ErrLengthTooLong) ||
		errors.Is(err, ErrTooManyHashes)
}

func lengthWarning(length int) string {
	if length < crypto.MinRecommendedLength || length > crypto.MaxRecommendedLength {
		return fmt.Sprintf("length %d is outside the recommended range %d-%d",
			length, crypto.MinRecommendedLength, crypto.MaxRecommendedLength)
	}
	return ""
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func intOrDefault(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
