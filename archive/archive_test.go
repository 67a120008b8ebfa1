package archive

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestBuildManifest(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"RunInfo.xml":     "<RunInfo/>",
		"RTAComplete.txt": "",
		"Data/Intensities/BaseCalls/L001/C1.1/L001_1.cbcl": "binary",
	})

	m, err := BuildManifest(dir)
	if err != nil {
		t.Fatalf("BuildManifest: %v", err)
	}
	if m.RunFolder != filepath.Base(dir) {
		t.Errorf("RunFolder = %q", m.RunFolder)
	}
	if m.FileCount != 3 || len(m.Entries) != 3 {
		t.Fatalf("FileCount = %d, entries = %d, want 3", m.FileCount, len(m.Entries))
	}
	if m.TotalSize != int64(len("<RunInfo/>")+len("binary")) {
		t.Errorf("TotalSize = %d", m.TotalSize)
	}

	paths := make(map[string]bool)
	for _, entry := range m.Entries {
		paths[entry.Path] = true
	}
	if !paths["Data/Intensities/BaseCalls/L001/C1.1/L001_1.cbcl"] {
		t.Errorf("nested entry missing or not slash-separated: %v", paths)
	}
}

func TestBuildManifestMissingFolder(t *testing.T) {
	if _, err := BuildManifest(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("missing folder walked without error")
	}
}

type capturePutter struct {
	input *s3.PutObjectInput
}

func (c *capturePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	c.input = in
	return &s3.PutObjectOutput{}, nil
}

func TestUploadManifest(t *testing.T) {
	capture := &capturePutter{}
	u := &Uploader{client: capture, cfg: S3Config{Bucket: "archive", Prefix: "runs"}}

	m := &Manifest{RunFolder: "240112_NV001_0042_AHXYZ1DRXX", FileCount: 1}
	if err := u.UploadManifest(context.Background(), m); err != nil {
		t.Fatalf("UploadManifest: %v", err)
	}

	if capture.input == nil {
		t.Fatal("PutObject not called")
	}
	if got := *capture.input.Bucket; got != "archive" {
		t.Errorf("bucket = %q", got)
	}
	if got := *capture.input.Key; got != "runs/240112_NV001_0042_AHXYZ1DRXX/manifest.json" {
		t.Errorf("key = %q", got)
	}

	body, err := io.ReadAll(capture.input.Body)
	if err != nil {
		t.Fatal(err)
	}
	var decoded Manifest
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if decoded.RunFolder != m.RunFolder || decoded.FileCount != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestS3ConfigValidate(t *testing.T) {
	if err := (&S3Config{}).Validate(); err == nil {
		t.Error("empty bucket accepted")
	}
	if err := (&S3Config{Bucket: "archive"}).Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
