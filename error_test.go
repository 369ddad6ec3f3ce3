package hbridge_test

import (
	"testing"

	"github.com/advdv/hbridge"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err1 := hbridge.NewError(hbridge.CodeBadRequest, errors.New("foo"))
	require.Equal(t, hbridge.Code(400), err1.Code())
	require.Equal(t, hbridge.CodeBadRequest, hbridge.CodeOf(err1))
	require.Equal(t, "Bad Request: foo", err1.Error())
	require.Equal(t, "foo", err1.Message())

	require.Equal(t, hbridge.CodeUnknown, hbridge.CodeOf(errors.New("bar")))
	require.Equal(t, "Unknown: rab", hbridge.NewError(900, errors.New("rab")).Error())
}

func TestErrorfMessage(t *testing.T) {
	err := hbridge.Errorf(hbridge.CodeUnprocessableEntity, "field %q is invalid", "name")
	require.Equal(t, `field "name" is invalid`, err.Message())
	require.NoError(t, err.Unwrap())

	require.Equal(t, "Not Found", hbridge.Errorf(hbridge.CodeNotFound, "").Message())
}

func TestCodeOfWrapped(t *testing.T) {
	wrapped := errors.Wrap(hbridge.Errorf(hbridge.CodeConflict, "taken"), "create user")
	require.Equal(t, hbridge.CodeConflict, hbridge.CodeOf(wrapped))
}
