package catalog

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/louisbranch/dealmate-context/internal/platform/errors"
)

func TestWarningAsError(t *testing.T) {
	err := Warning{Path: "/ctx/svc/locked", Err: os.ErrPermission}.AsError()

	assert.Equal(t, apperrors.CodeIndexBuildWarning, apperrors.CodeOf(err))
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Equal(t, "skipped unreadable directory /ctx/svc/locked", err.Error())

	var domainErr *apperrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "/ctx/svc/locked", domainErr.Metadata["path"])
}
