/*
DESCRIPTION
  load_test.go tests LoadFile's key=value parsing, comment and
  blank-line handling, and malformed-line rejection.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breathcam.conf")
	contents := "# breathcam config\n" +
		"\n" +
		"input=video.mp4\n" +
		"  width = 800  \n" +
		"amplify=25\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("could not write test config file: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned unexpected error: %v", err)
	}

	want := map[string]string{
		"input":   "video.mp4",
		"width":   "800",
		"amplify": "25",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFileRejectsMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "breathcam.conf")
	if err := os.WriteFile(path, []byte("not-a-key-value-line\n"), 0o644); err != nil {
		t.Fatalf("could not write test config file: %v", err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile() = nil error, want error for malformed line")
	}
}

func TestLoadFileMissingPath(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.conf")); err == nil {
		t.Error("LoadFile() = nil error, want error for missing file")
	}
}
