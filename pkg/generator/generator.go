package generator

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Options selects the character classes of a generated password
type Options struct {
	Length         int
	Lower          bool
	Upper          bool
	Digits         bool
	Symbols        bool
	ExcludeSimilar bool // drop look-alikes such as l, 1, O and 0
}

// DefaultOptions returns the options used by `register --generate`
func DefaultOptions() Options {
	return Options{
		Length:         20,
		Lower:          true,
		Upper:          true,
		Digits:         true,
		Symbols:        true,
		ExcludeSimilar: true,
	}
}

const (
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*-_=+?"
	similar     = "il1Lo0O"
)

// Generate returns a random password containing at least one character
// from every selected class
func Generate(opts Options) (string, error) {
	classes := opts.classes()
	if len(classes) == 0 {
		return "", errors.New("no character class selected")
	}
	if opts.Length < len(classes) {
		return "", errors.New("password length is shorter than the number of character classes")
	}

	alphabet := []rune(strings.Join(classes, ""))
	out := make([]rune, 0, opts.Length)

	// One from each class first, then fill from the combined alphabet.
	for _, class := range classes {
		r, err := pick([]rune(class))
		if err != nil {
			return "", err
		}
		out = append(out, r)
	}
	for len(out) < opts.Length {
		r, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		out = append(out, r)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func (o Options) classes() []string {
	var classes []string
	add := func(enabled bool, chars string) {
		if !enabled {
			return
		}
		if o.ExcludeSimilar {
			chars = strings.Map(func(r rune) rune {
				if strings.ContainsRune(similar, r) {
					return -1
				}
				return r
			}, chars)
		}
		classes = append(classes, chars)
	}
	add(o.Lower, lowerChars)
	add(o.Upper, upperChars)
	add(o.Digits, digitChars)
	add(o.Symbols, symbolChars)
	return classes
}

func pick(chars []rune) (rune, error) {
	i, err := randomInt(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

// shuffle is a Fisher-Yates shuffle driven by crypto/rand
func shuffle(rs []rune) error {
	for i := len(rs) - 1; i > 0; i-- {
		j, err := randomInt(i + 1)
		if err != nil {
			return err
		}
		rs[i], rs[j] = rs[j], rs[i]
	}
	return nil
}

// randomInt returns a uniform random integer in [0, max)
func randomInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}
