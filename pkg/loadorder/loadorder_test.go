// Test Type: Unit Test
// Description: Tests for loadorder.txt reading and writing

package loadorder_test

import (
	"testing"

	"github.com/Alaxouche/loadout/pkg/filesystem"
	"github.com/Alaxouche/loadout/pkg/loadorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	t.Run("skips_comments_and_blanks", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		require.NoError(t, fsys.MkdirAll("p", 0755))
		require.NoError(t, fsys.WriteFile("p/loadorder.txt",
			[]byte("# comment\n\nSkyrim.esm\n  Padded.esp  \n\t\n"), 0644))

		got := loadorder.Read(fsys, "p/loadorder.txt")
		assert.Equal(t, []string{"Skyrim.esm", "Padded.esp"}, got)
	})

	t.Run("missing_file_reads_empty", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		assert.Empty(t, loadorder.Read(fsys, "p/loadorder.txt"))
	})

	t.Run("crlf_endings_accepted", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		require.NoError(t, fsys.MkdirAll("p", 0755))
		require.NoError(t, fsys.WriteFile("p/loadorder.txt", []byte("A.esp\r\nB.esp\r\n"), 0644))

		got := loadorder.Read(fsys, "p/loadorder.txt")
		assert.Equal(t, []string{"A.esp", "B.esp"}, got)
	})
}

func TestWrite(t *testing.T) {
	t.Run("creates_parents_and_trailing_newline", func(t *testing.T) {
		fsys := filesystem.NewMemory()

		require.NoError(t, loadorder.Write(fsys, "profiles/Default/loadorder.txt", []string{"A.esm", "B.esp"}))

		data, err := fsys.ReadFile("profiles/Default/loadorder.txt")
		require.NoError(t, err)
		assert.Equal(t, "A.esm\nB.esp\n", string(data))
	})

	t.Run("round_trip", func(t *testing.T) {
		fsys := filesystem.NewMemory()
		order := []string{"One.esm", "Two.esp", "Three.esl"}

		require.NoError(t, loadorder.Write(fsys, "p/loadorder.txt", order))
		assert.Equal(t, order, loadorder.Read(fsys, "p/loadorder.txt"))
	})
}
