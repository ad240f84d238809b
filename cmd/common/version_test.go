package common

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()

	assert.Equal(t, ProjectName, info.ProjectName)
	assert.Equal(t, ProjectVersion, info.Version)
	assert.Equal(t, BuildDate, info.BuildDate)
	assert.Equal(t, BuildCommit, info.BuildCommit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Architecture)
	assert.Equal(t, ProjectRepo, info.Repository)
}

func TestGetShortVersion(t *testing.T) {
	assert.Equal(t, ProjectVersion, GetShortVersion())
}
