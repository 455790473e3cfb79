package pipeline

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"disasterresponse/internal/core/tokenize"
	perr "disasterresponse/internal/platform/errors"
)

// magic prefixes every artifact; anything else is rejected
var magic = []byte("DRPIPE\x00\x01")

// Encode writes the header then the zstd compressed gob stream
func (p *Pipeline) Encode(w io.Writer) error {
	if p.Classifier == nil || p.Classifier.Labels() == 0 || len(p.Categories) == 0 {
		return perr.Modelf("pipeline: refusing to encode an unfitted model")
	}
	if _, err := w.Write(magic); err != nil {
		return perr.IOf(err, "pipeline: write header")
	}
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return perr.IOf(err, "pipeline: zstd writer")
	}
	if err := gob.NewEncoder(zw).Encode(p); err != nil {
		_ = zw.Close()
		return perr.IOf(err, "pipeline: encode")
	}
	if err := zw.Close(); err != nil {
		return perr.IOf(err, "pipeline: flush")
	}
	return nil
}

// Decode reads an artifact written by Encode and attaches the shared tokenizer
func Decode(r io.Reader) (*Pipeline, error) {
	br := bufio.NewReader(r)
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(br, head); err != nil || !bytes.Equal(head, magic) {
		return nil, perr.Modelf("pipeline: not a model artifact")
	}
	zr, err := zstd.NewReader(br)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeModel, "pipeline: zstd reader")
	}
	defer zr.Close()

	var p Pipeline
	if err := gob.NewDecoder(zr).Decode(&p); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeModel, "pipeline: decode")
	}
	if p.Vectorizer == nil || p.Classifier == nil || p.Classifier.Labels() != len(p.Categories) {
		return nil, perr.Modelf("pipeline: artifact is incomplete")
	}
	tok, err := tokenize.Default()
	if err != nil {
		return nil, err
	}
	p.tok = tok
	return &p, nil
}

// Save writes the artifact to path atomically through a temp file and rename
func Save(p *Pipeline, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return perr.IOf(err, "pipeline: mkdir %s", dir)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return perr.IOf(err, "pipeline: temp file")
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	bw := bufio.NewWriter(f)
	if err := p.Encode(bw); err != nil {
		_ = f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return perr.IOf(err, "pipeline: flush %s", tmp)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return perr.IOf(err, "pipeline: sync %s", tmp)
	}
	if err := f.Close(); err != nil {
		return perr.IOf(err, "pipeline: close %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return perr.IOf(err, "pipeline: rename to %s", path)
	}
	return nil
}

// Load reads the artifact at path
func Load(path string) (*Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.WithField(perr.NotFoundf("pipeline: no model at %s", path), "model_path")
		}
		return nil, perr.IOf(err, "pipeline: open %s", path)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}
