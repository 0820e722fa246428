package core

import (
	"errors"
	"testing"
)

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name    string
		product *Product
		wantErr error
	}{
		{
			name: "valid product",
			product: &Product{
				Title: "Glättekelle",
			},
			wantErr: nil,
		},
		{
			name: "valid product with variants",
			product: &Product{
				Title:    "Glättekelle",
				Category: "Kellen",
				Variants: []Variant{{Code: "K-500 12"}},
			},
			wantErr: nil,
		},
		{
			name:    "nil product",
			product: nil,
			wantErr: ErrInvalidProduct,
		},
		{
			name:    "empty title",
			product: &Product{Category: "Kellen"},
			wantErr: ErrEmptyTitle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProduct(tt.product)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateProduct() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateProduct() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr error
	}{
		{
			name: "valid document",
			doc: &Document{
				Code:     "K-500 12",
				CodeNorm: "k-500 12",
				Blob:     "glaettekelle k-500 12",
			},
			wantErr: nil,
		},
		{
			name: "code only",
			doc: &Document{
				Code:     "K-500 12",
				CodeNorm: "k-500 12",
			},
			wantErr: nil,
		},
		{
			name: "blob only",
			doc: &Document{
				Blob: "glaettekelle rostfrei",
			},
			wantErr: nil,
		},
		{
			name:    "nil document",
			doc:     nil,
			wantErr: ErrInvalidDocument,
		},
		{
			name:    "no searchable text",
			doc:     &Document{Title: "Glättekelle"},
			wantErr: ErrNoSearchableText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateDocument() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDocument() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
