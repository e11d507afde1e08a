package wal

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Seq  int    `json:"seq"`
	Note string `json:"note"`
}

func TestWriteFlushReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	w, err := NewWAL(path)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		require.NoError(t, w.Write(testRecord{Seq: i, Note: "r"}))
	}
	require.NoError(t, w.Flush())

	var got []testRecord
	err = w.ReadAll(func(raw []byte) error {
		var r testRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			return err
		}
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 1, got[0].Seq)
	require.Equal(t, 3, got[2].Seq)
	require.NoError(t, w.Close())
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")

	w, err := NewWAL(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(testRecord{Seq: 1}))
	require.NoError(t, w.Close())

	// 重新開啟後舊紀錄仍在，新寫入接在後面
	w, err = NewWAL(path)
	require.NoError(t, err)
	require.NoError(t, w.Write(testRecord{Seq: 2}))

	count := 0
	require.NoError(t, w.ReadAll(func(raw []byte) error {
		count++
		return nil
	}))
	require.Equal(t, 2, count)
	require.NoError(t, w.Close())
}

func TestReadAllEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wal.log")
	w, err := NewWAL(path)
	require.NoError(t, err)
	require.NoError(t, w.ReadAll(func(raw []byte) error {
		t.Fatal("empty wal should not produce records")
		return nil
	}))
	require.NoError(t, w.Close())
}
