package common

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateTrxNo(t *testing.T) {
	trx := GenerateTrxNo()
	if len(trx) != 7 {
		t.Errorf("Expected length 7, got %d", len(trx))
	}

	for _, char := range trx {
		if !strings.ContainsRune(codeCharacters, char) {
			t.Errorf("Invalid character found: %c", char)
		}
	}
}

func TestGenerateReferralCode(t *testing.T) {
	code := GenerateReferralCode()
	assert.Len(t, code, 8)
	for _, char := range code {
		assert.True(t, strings.ContainsRune(codeCharacters, char), "invalid character %c", char)
	}
}

func TestHashFingerprint(t *testing.T) {
	h := HashFingerprint("Mozilla/5.0")
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashFingerprint("  Mozilla/5.0 "))
	assert.NotEqual(t, h, HashFingerprint("curl/8.0"))
	assert.NotContains(t, h, "Mozilla")
}

func TestPaginateResponse(t *testing.T) {
	total := int64(100)
	page := 1
	limit := 10
	data := []string{"item1", "item2"}

	res := PaginateResponse(data, total, page, limit, "")

	if res.CurrentPage != 1 {
		t.Errorf("Expected CurrentPage 1, got %d", res.CurrentPage)
	}
	if res.LastPage != 10 {
		t.Errorf("Expected LastPage 10, got %d", res.LastPage)
	}
	if res.NextPage != 2 {
		t.Errorf("Expected NextPage 2, got %d", res.NextPage)
	}
	if res.PrevPage != 0 {
		t.Errorf("Expected PrevPage 0, got %d", res.PrevPage)
	}
	if res.Message != "success" {
		t.Errorf("Expected default message, got %q", res.Message)
	}

	res = PaginateResponse(data, total, 10, limit, "")
	if res.NextPage != 0 {
		t.Errorf("Expected NextPage 0 for last page, got %d", res.NextPage)
	}

	res = PaginateResponse(data, total, 5, limit, "")
	if res.PrevPage != 4 || res.NextPage != 6 {
		t.Errorf("Expected prev 4 / next 6, got %d / %d", res.PrevPage, res.NextPage)
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit, offset := NormalizePage(0, 0, 20)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	page, limit, offset = NormalizePage(3, 500, 20)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 200, offset)
}

func TestAppErrorStatus(t *testing.T) {
	tests := []struct {
		err    *AppError
		status int
	}{
		{ErrUnauthorized("no identity"), http.StatusUnauthorized},
		{ErrForbidden("not yours"), http.StatusForbidden},
		{ErrValidation("bad slug"), http.StatusBadRequest},
		{ErrConflict("slug taken"), http.StatusConflict},
		{ErrNotFound("missing"), http.StatusNotFound},
		{ErrDependency("db down", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Kind), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status())
			res := ToErrorResponse(fmt.Errorf("wrapped: %w", tt.err))
			assert.Equal(t, tt.status, res.Status)
			assert.False(t, res.Success)
		})
	}

	assert.True(t, IsKind(ErrConflict("x"), KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
	assert.Equal(t, http.StatusInternalServerError, ToErrorResponse(errors.New("plain")).Status)
}
