package core

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Document IDs are generated by content-based hashing so that identical
// flatten inputs always produce identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Product is an immutable source record from the catalog input.
type Product struct {
	Title       string
	Category    string
	Description string
	Variants    []Variant
}

// Variant is one orderable configuration of a Product. The code is the
// catalog's human-entered order number; its format is not fixed and may
// contain spaces or hyphens. Dimensions are millimeters; absent numeric
// fields are nil.
type Variant struct {
	Code        string
	Config      string // configuration label ("Ausführung")
	LengthMM    *float64
	WidthMM     *float64
	HeightMM    *float64
	ThicknessMM *float64
	PriceEUR    *float64
	PackUnit    *int // packaging unit count ("VE")
}

// Document is the flattened, search-ready representation of one product
// variant: the variant's canonical fields, the parent product's display
// fields, and the derived search fields computed once at flatten time.
// Derived fields are pure functions of the source fields.
type Document struct {
	Id          ID
	Code        string
	Title       string
	Category    string
	Config      string
	Description string
	LengthMM    *float64
	WidthMM     *float64
	HeightMM    *float64
	ThicknessMM *float64
	PriceEUR    *float64
	PackUnit    *int

	// Derived fields. Blob is the concatenated, normalized,
	// synonym-expanded text used by the lexical and semantic tiers.
	Blob         string
	TitleNorm    string
	CategoryNorm string
	ConfigNorm   string
	CodeNorm     string
	CodeDigits   string
}

// FuzzyKey returns the candidate string the fuzzy tier scores against:
// title, configuration label and category, space-joined.
func (d *Document) FuzzyKey() string {
	return strings.TrimSpace(d.Title + " " + d.Config + " " + d.Category)
}

// Dimensions returns the present dimension fields as ordered (name, value)
// pairs, for blob construction and display.
func (d *Document) Dimensions() []Dimension {
	var dims []Dimension
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"L MM", d.LengthMM},
		{"B MM", d.WidthMM},
		{"H MM", d.HeightMM},
		{"STAERKE MM", d.ThicknessMM},
	} {
		if f.value != nil {
			dims = append(dims, Dimension{Name: f.name, Value: *f.value})
		}
	}
	return dims
}

// Dimension is a named numeric dimension of a variant, in millimeters.
type Dimension struct {
	Name  string
	Value float64
}

// String renders the dimension as "<NAME>: <value>".
func (dim Dimension) String() string {
	return dim.Name + ": " + strconv.FormatFloat(dim.Value, 'f', -1, 64)
}
