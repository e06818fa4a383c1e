package core

import (
	"errors"
	"testing"
)

func TestDomainError_Checks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{
			name:  "matching code",
			err:   NewDomainError(ModulePartition, ErrorCodeInvalidFractions, "bad fractions"),
			check: IsInvalidFractions,
			want:  true,
		},
		{
			name:  "different code",
			err:   NewDomainError(ModulePartition, ErrorCodeInvalidFractions, "bad fractions"),
			check: IsResponseNotBinary,
			want:  false,
		},
		{
			name:  "plain error",
			err:   errors.New("boom"),
			check: IsInvalidFractions,
			want:  false,
		},
		{
			name:  "nil error",
			err:   nil,
			check: IsEmptyFitData,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Fatalf("check = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsStoreNotFound(t *testing.T) {
	if !IsStoreNotFound(ErrStoreNotFound) {
		t.Fatal("ErrStoreNotFound should be recognized")
	}
	// same code in a different module must not match
	other := NewDomainError(ModulePipeline, ErrorCodeNotFound, "split not found")
	if IsStoreNotFound(other) {
		t.Fatal("NOT_FOUND outside the store module should not be recognized")
	}
}
