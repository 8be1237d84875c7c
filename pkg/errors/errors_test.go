package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_CarriesCodeAndMessage(t *testing.T) {
	err := New(ErrCodeBenchmarkStoreUnavailable, "query failed")
	assert.Equal(t, ErrCodeBenchmarkStoreUnavailable, err.Code)
	assert.Contains(t, err.Error(), "BMK_001")
	assert.Contains(t, err.Error(), "query failed")
	assert.NotEmpty(t, err.Stack)
}

func TestError_DetailFormatting(t *testing.T) {
	err := InvalidParam("bad earnings type").WithDetail("got XYZ")
	assert.Equal(t, "[COMMON_002] bad earnings type: got XYZ", err.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeDatabaseError, "should be nil"))
}

func TestWrap_PreservesChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, ErrCodeDatabaseError, "failed to load benchmarks")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrCodeDatabaseError, GetCode(err))
}

func TestWrap_UnknownCodePreservesOriginal(t *testing.T) {
	inner := NotFound("benchmark Default missing")
	err := Wrap(inner, CodeUnknown, "lookup failed")
	assert.Equal(t, CodeNotFound, err.Code)
}

func TestIsCode_TraversesChain(t *testing.T) {
	inner := New(ErrCodeBenchmarkNotFound, "no row")
	outer := fmt.Errorf("outer: %w", inner)
	assert.True(t, IsCode(outer, ErrCodeBenchmarkNotFound))
	assert.False(t, IsCode(outer, ErrCodeCacheError))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.True(t, IsNotFound(New(ErrCodeBenchmarkNotFound, "no benchmark")))
	assert.False(t, IsNotFound(Internal("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeConflict, GetCode(Conflict("dup")))
}

func TestWithDetail_Nilreceiver(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithDetail("x"))
}

func TestWithCause_Clones(t *testing.T) {
	base := Internal("base")
	cause := stderrors.New("root")
	derived := base.WithCause(cause)
	require.NotSame(t, base, derived)
	assert.Nil(t, base.Cause)
	assert.ErrorIs(t, derived, cause)
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "BMK", ModuleForCode(ErrCodeBenchmarkNotFound))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "industry benchmark not found", DefaultMessageForCode(ErrCodeBenchmarkNotFound))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("NOPE_999")))
}
