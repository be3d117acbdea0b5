package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarcoClaps/vrptw"
)

func TestGeneratorWritesOneFilePerCombination(t *testing.T) {
	dir := t.TempDir()
	err := newApp().Run([]string{"generator", "--dir", dir, "--n", "3,4", "--k", "2", "--seed", "7", "--v", "1"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	inst, err := vrptw.ReadInstance(filepath.Join(dir, "vrptw_3_2_7.json"))
	require.NoError(t, err)
	assert.Equal(t, "vrptw_3_2_7", inst.Name)
	assert.Len(t, inst.Customers, 3)
	assert.Equal(t, int64(7), inst.Seed)

	inst, err = vrptw.ReadInstance(filepath.Join(dir, "vrptw_4_2_7.json"))
	require.NoError(t, err)
	assert.Equal(t, "vrptw_4_2_7", inst.Name)
}

func TestGeneratorYAML(t *testing.T) {
	dir := t.TempDir()
	err := newApp().Run([]string{"generator", "--dir", dir, "--name", "tw", "--n", "2", "--k", "1", "--seed", "1", "--format", "yaml", "--v", "1"})
	require.NoError(t, err)
	inst, err := vrptw.ReadInstance(filepath.Join(dir, "tw_2_1_1.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "tw_2_1_1", inst.Name)
}
