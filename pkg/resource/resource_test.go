package resource

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"gocloud.dev/blob/memblob"
)

func TestOpenFileIsResource(t *testing.T) {
	name := filepath.Join(t.TempDir(), "data.txt")
	if err := os.WriteFile(name, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var res Resource = f
	info, err := res.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 5 {
		t.Fatalf("Size is %d", info.Size())
	}
	if res.Name() != name {
		t.Fatalf("Name is %s", res.Name())
	}
}

func TestBlobResourceSeekAndStat(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()
	if err := bucket.WriteAll(ctx, "dir/alphabet.txt", []byte("abcdefghijklmnopqrstuvwxyz"), nil); err != nil {
		t.Fatal(err)
	}

	res, err := OpenBlob(ctx, bucket, "dir/alphabet.txt")
	if err != nil {
		t.Fatal(err)
	}

	info, err := res.Stat()
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 26 || info.Name() != "alphabet.txt" {
		t.Fatalf("Stat is %s (%d bytes)", info.Name(), info.Size())
	}
	if info.ModTime().IsZero() {
		t.Fatal("ModTime is zero")
	}

	if _, err := res.Seek(20, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	rest, err := io.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(rest) != "uvwxyz" {
		t.Fatalf("Read after seek is %s", rest)
	}

	if err := res.Close(); err != nil {
		t.Fatal(err)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := res.Stat(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Stat after close is %v", err)
	}
}

func TestOpenBlobMissing(t *testing.T) {
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()
	if _, err := OpenBlob(context.Background(), bucket, "nope"); err == nil {
		t.Fatal("expected error for missing blob")
	}
}
