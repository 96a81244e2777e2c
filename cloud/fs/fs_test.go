// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLocalFilesystem_UploadSnapshot(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocalFilesystem(dir)
	if err != nil {
		t.Fatal(err)
	}

	data := []byte("{}")
	if err := local.UploadSnapshot("seed-1337/chunks.json", 60, data); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "seed-1337", "chunks.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(data) {
		t.Errorf("expected %q, got %q", data, got)
	}
}

func TestContentType(t *testing.T) {
	if ct := contentType("profile.png"); ct == nil || *ct != "image/png" {
		t.Error("expected image/png, got", ct)
	}
	if ct := contentType("chunks.json.zst"); ct == nil || *ct != "application/zstd" {
		t.Error("expected application/zstd, got", ct)
	}
	if ct := contentType("notes.txt"); ct != nil {
		t.Error("expected no content type, got", *ct)
	}
}
