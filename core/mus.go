package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the index store's on-disk format.
// Optional numeric fields are encoded as a presence flag followed by the
// value. Field order is fixed; changing it is a wire format break.

// DocumentMUS serializes Document values.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(d.Id), bs)
	n += ord.String.Marshal(d.Code, bs[n:])
	n += ord.String.Marshal(d.Title, bs[n:])
	n += ord.String.Marshal(d.Category, bs[n:])
	n += ord.String.Marshal(d.Config, bs[n:])
	n += ord.String.Marshal(d.Description, bs[n:])
	n += marshalFloatPtr(d.LengthMM, bs[n:])
	n += marshalFloatPtr(d.WidthMM, bs[n:])
	n += marshalFloatPtr(d.HeightMM, bs[n:])
	n += marshalFloatPtr(d.ThicknessMM, bs[n:])
	n += marshalFloatPtr(d.PriceEUR, bs[n:])
	n += marshalIntPtr(d.PackUnit, bs[n:])
	n += ord.String.Marshal(d.Blob, bs[n:])
	n += ord.String.Marshal(d.TitleNorm, bs[n:])
	n += ord.String.Marshal(d.CategoryNorm, bs[n:])
	n += ord.String.Marshal(d.ConfigNorm, bs[n:])
	n += ord.String.Marshal(d.CodeNorm, bs[n:])
	n += ord.String.Marshal(d.CodeDigits, bs[n:])
	return
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	var (
		id uint64
		n1 int
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	d.Id = ID(id)

	strFields := []*string{
		&d.Code, &d.Title, &d.Category, &d.Config, &d.Description,
	}
	for _, f := range strFields {
		*f, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}

	floatFields := []**float64{
		&d.LengthMM, &d.WidthMM, &d.HeightMM, &d.ThicknessMM, &d.PriceEUR,
	}
	for _, f := range floatFields {
		*f, n1, err = unmarshalFloatPtr(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}

	d.PackUnit, n1, err = unmarshalIntPtr(bs[n:])
	n += n1
	if err != nil {
		return
	}

	derivedFields := []*string{
		&d.Blob, &d.TitleNorm, &d.CategoryNorm, &d.ConfigNorm,
		&d.CodeNorm, &d.CodeDigits,
	}
	for _, f := range derivedFields {
		*f, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (documentMUS) Size(d Document) (size int) {
	size = varint.Uint64.Size(uint64(d.Id))
	for _, s := range []string{
		d.Code, d.Title, d.Category, d.Config, d.Description,
		d.Blob, d.TitleNorm, d.CategoryNorm, d.ConfigNorm,
		d.CodeNorm, d.CodeDigits,
	} {
		size += ord.String.Size(s)
	}
	for _, f := range []*float64{
		d.LengthMM, d.WidthMM, d.HeightMM, d.ThicknessMM, d.PriceEUR,
	} {
		size += sizeFloatPtr(f)
	}
	size += sizeIntPtr(d.PackUnit)
	return
}

func (m documentMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = m.Unmarshal(bs)
	return
}

// VectorMUS serializes embedding vectors.
var VectorMUS = vectorMUS{}

type vectorMUS struct{}

func (vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return
}

func (vectorMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	var (
		length int
		n1     int
	)
	length, n, err = varint.Int.Unmarshal(bs)
	if err != nil || length == 0 {
		return
	}
	v = make([]float32, length)
	for i := range v {
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return
}

func (m vectorMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = m.Unmarshal(bs)
	return
}

func marshalFloatPtr(p *float64, bs []byte) (n int) {
	n = ord.Bool.Marshal(p != nil, bs)
	if p != nil {
		n += varint.Float64.Marshal(*p, bs[n:])
	}
	return
}

func unmarshalFloatPtr(bs []byte) (p *float64, n int, err error) {
	var present bool
	present, n, err = ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return
	}
	var (
		v  float64
		n1 int
	)
	v, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p = &v
	return
}

func sizeFloatPtr(p *float64) int {
	if p == nil {
		return ord.Bool.Size(false)
	}
	return ord.Bool.Size(true) + varint.Float64.Size(*p)
}

func marshalIntPtr(p *int, bs []byte) (n int) {
	n = ord.Bool.Marshal(p != nil, bs)
	if p != nil {
		n += varint.Int.Marshal(*p, bs[n:])
	}
	return
}

func unmarshalIntPtr(bs []byte) (p *int, n int, err error) {
	var present bool
	present, n, err = ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return
	}
	var (
		v  int
		n1 int
	)
	v, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p = &v
	return
}

func sizeIntPtr(p *int) int {
	if p == nil {
		return ord.Bool.Size(false)
	}
	return ord.Bool.Size(true) + varint.Int.Size(*p)
}
