package qr_test

import (
	"errors"
	"testing"

	"stocktree/internal/qr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    qr.Target
		wantErr bool
	}{
		{
			name:    "bare part ID",
			payload: "42",
			want:    qr.Target{Kind: qr.KindPart, ID: 42},
		},
		{
			name:    "part ID with whitespace",
			payload: "  17 \n",
			want:    qr.Target{Kind: qr.KindPart, ID: 17},
		},
		{
			name:    "location reference",
			payload: "5;Main Warehouse",
			want:    qr.Target{Kind: qr.KindLocation, ID: 5, Name: "Main Warehouse"},
		},
		{
			name:    "location with padded fields",
			payload: " 8 ; Shelf B ",
			want:    qr.Target{Kind: qr.KindLocation, ID: 8, Name: "Shelf B"},
		},
		{
			name:    "location with empty name",
			payload: "3;",
			want:    qr.Target{Kind: qr.KindLocation, ID: 3},
		},
		{
			name:    "empty payload",
			payload: "",
			wantErr: true,
		},
		{
			name:    "non-numeric part",
			payload: "abc",
			wantErr: true,
		},
		{
			name:    "non-numeric location ID",
			payload: "abc;Shelf",
			wantErr: true,
		},
		{
			name:    "float is not an ID",
			payload: "3.5",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := qr.Parse(tt.payload)
			if tt.wantErr {
				if !errors.Is(err, qr.ErrInvalidPayload) {
					t.Fatalf("got err %v, want ErrInvalidPayload", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
