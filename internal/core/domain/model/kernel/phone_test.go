package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"+20 101 234 5678", "1012345678"},
		{"00201012345678", "1012345678"},
		{"01012345678", "1012345678"},
		{"201012345678", "1012345678"},
		{"(101) 234-5678", "1012345678"},
		{"12345", "12345"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, kernel.NormalizePhone(tt.raw))
		})
	}
}

func TestSamePhone(t *testing.T) {
	assert.True(t, kernel.SamePhone("+201012345678", "01012345678"))
	assert.False(t, kernel.SamePhone("+201012345678", "01112345678"))
	assert.False(t, kernel.SamePhone("", ""))
}
