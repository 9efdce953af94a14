package symbol

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/spotdeck/pkg/errors"
)

// Pool maps symbol indices 0..Len()-1 to symbols. It is read-only.
type Pool struct {
	symbols []*Symbol
}

// NewPool builds a pool from symbols whose indices must be exactly 0..len-1
// in order.
func NewPool(symbols []*Symbol) (*Pool, error) {
	if len(symbols) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidPool, "symbol pool is empty")
	}
	for i, s := range symbols {
		if s == nil {
			return nil, errors.New(errors.ErrCodeInvalidPool, "symbol %d is nil", i)
		}
		if s.Index != i {
			return nil, errors.New(errors.ErrCodeInvalidPool, "symbol at position %d has index %d", i, s.Index)
		}
	}
	return &Pool{symbols: slices.Clone(symbols)}, nil
}

// Len returns the number of symbols.
func (p *Pool) Len() int { return len(p.symbols) }

// Get returns symbol i.
func (p *Pool) Get(i int) (*Symbol, bool) {
	if i < 0 || i >= len(p.symbols) {
		return nil, false
	}
	return p.symbols[i], true
}

// Symbols resolves a list of indices, typically one card.
func (p *Pool) Symbols(indices []int) ([]*Symbol, error) {
	out := make([]*Symbol, len(indices))
	for i, idx := range indices {
		s, ok := p.Get(idx)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidPool, "symbol %d not in pool of %d", idx, len(p.symbols))
		}
		out[i] = s
	}
	return out, nil
}

// All returns the symbols in index order.
func (p *Pool) All() []*Symbol { return slices.Clone(p.symbols) }

// fileRe matches "<number>_<name>.png". Numbers start at 1 on disk.
var fileRe = regexp.MustCompile(`^(\d+)_(.+)\.png$`)

// LoadOption configures [LoadDir].
type LoadOption func(*loadConfig)

type loadConfig struct {
	names []string
}

// WithNames overrides the file-derived symbol names. names[i] names the
// symbol stored in file number i+1; missing entries keep the file name.
func WithNames(names []string) LoadOption {
	return func(c *loadConfig) { c.names = names }
}

// LoadDir loads every "<n>_<name>.png" file in dir. File n becomes pool index
// n-1; numbering must be contiguous from 1. Other files are ignored.
func LoadDir(dir string, opts ...LoadOption) (*Pool, error) {
	var cfg loadConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "symbol directory %s", dir)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPool, err, "read symbol directory %s", dir)
	}

	byIndex := make(map[int]string)
	maxIndex := -1
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return nil, errors.New(errors.ErrCodeInvalidPool, "invalid symbol number in %s", e.Name())
		}
		idx := n - 1
		if prev, dup := byIndex[idx]; dup {
			return nil, errors.New(errors.ErrCodeInvalidPool, "symbol %d defined twice: %s and %s", n, prev, e.Name())
		}
		byIndex[idx] = e.Name()
		maxIndex = max(maxIndex, idx)
	}

	symbols := make([]*Symbol, maxIndex+1)
	for idx := 0; idx <= maxIndex; idx++ {
		file, ok := byIndex[idx]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidPool, "missing symbol file number %d in %s", idx+1, dir)
		}
		img, err := imaging.Open(filepath.Join(dir, file))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "open %s", file)
		}
		name := strings.ReplaceAll(fileRe.FindStringSubmatch(file)[2], "_", " ")
		if idx < len(cfg.names) && cfg.names[idx] != "" {
			name = cfg.names[idx]
		}
		if err := errors.ValidateSymbolName(name); err != nil {
			return nil, err
		}
		symbols[idx] = New(idx, name, img)
	}
	return NewPool(symbols)
}

// nameLineRe matches "> 12. anchor" lines of a names file.
var nameLineRe = regexp.MustCompile(`^>\s*(\d+)\.\s+(.+?)\s*$`)

// ParseNames reads symbol names from a names file. Only lines of the form
// "> N. name" are used; N is the 1-based symbol number. Lines may appear in
// any order, and numbers without a line get an empty name.
func ParseNames(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := nameLineRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid symbol number in names line %q", sc.Text())
		}
		for len(names) < n {
			names = append(names, "")
		}
		names[n-1] = m[2]
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read names")
	}
	return names, nil
}

// ReadNamesFile is [ParseNames] for a file path.
func ReadNamesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "names file %s", path)
		}
		return nil, err
	}
	defer f.Close()
	return ParseNames(f)
}
