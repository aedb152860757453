package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestYAMLFormatter_Format_BasicOutput(t *testing.T) {
	formatter := &YAMLFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, sampleResult())
	require.NoError(t, err)

	var decoded yamlOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Results, 3)
	assert.Equal(t, "images/dsc0001.jpg", decoded.Results[0].RelPath)
	assert.Equal(t, "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03", decoded.Results[0].Hash)
	assert.Equal(t, "sha256", decoded.Results[0].Algorithm)

	assert.Equal(t, int64(3), decoded.Stats.TotalFiles)
	assert.Equal(t, int64(1), decoded.Stats.FailedFiles)

	require.Len(t, decoded.Storage, 1)
	assert.Equal(t, "NVMe", decoded.Storage[0].Type)
}

func TestYAMLFormatter_Format_FailedFileFields(t *testing.T) {
	formatter := &YAMLFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, sampleResult())
	require.NoError(t, err)

	var decoded yamlOutput
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	failed := decoded.Results[1]
	assert.Equal(t, "locked.bin", failed.RelPath)
	assert.Empty(t, failed.Hash)
	assert.Contains(t, failed.Error, "permission denied")
	assert.Equal(t, "permission", failed.Kind)
}

func TestYAMLFormatter_Format_TopLevelKeys(t *testing.T) {
	formatter := &YAMLFormatter{}
	var buf bytes.Buffer

	err := formatter.Format(&buf, sampleResult())
	require.NoError(t, err)

	content := buf.String()
	assert.Contains(t, content, "results:")
	assert.Contains(t, content, "stats:")
	assert.Contains(t, content, "storage:")
	assert.Contains(t, content, "meta:")
}

func TestYAMLFormatter_Registration(t *testing.T) {
	formatter, err := Get("yaml")
	require.NoError(t, err)
	assert.IsType(t, &YAMLFormatter{}, formatter)
}
