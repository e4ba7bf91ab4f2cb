package workflow

import (
	"context"
	"errors"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/ocrtext"
)

// OcrRequest asks the caller to recognize Path and report back through
// CompleteOcr with ID. Its context carries the session's timeout and is
// cancelled when the user leaves the Ocr screen.
type OcrRequest struct {
	ctx  context.Context
	Path string
	ID   uint64
}

// Context returns the context the recognition must run under.
func (r *OcrRequest) Context() context.Context {
	return r.ctx
}

type pendingOcr struct {
	cancel context.CancelFunc
	id     uint64
}

func (s *Session) requestOcr() *OcrRequest {
	s.cancelOcr()

	s.nextOcrID++
	ctx, cancel := context.WithTimeout(context.Background(), s.ocrTimeout)
	s.pending = &pendingOcr{id: s.nextOcrID, cancel: cancel}

	s.logger.Debug("ocr requested", "request_id", s.nextOcrID, "path", s.ocrFile)
	return &OcrRequest{ctx: ctx, ID: s.nextOcrID, Path: s.ocrFile}
}

func (s *Session) cancelOcr() {
	if s.pending == nil {
		return
	}
	s.pending.cancel()
	s.pending = nil
}

// CompleteOcr applies the outcome of request id. Results for requests that are
// no longer pending are dropped. A failed recognition returns the session to
// Import and is kept as LastError.
func (s *Session) CompleteOcr(id uint64, text string, err error) {
	if s.pending == nil || s.pending.id != id {
		s.logger.Debug("dropping stale ocr result", "request_id", id)
		return
	}
	s.cancelOcr()

	if s.state != StateOcr {
		return
	}

	if err != nil {
		var ocrErr *common.OcrError
		if !errors.As(err, &ocrErr) {
			err = common.NewOcrError(s.ocrFile, err)
		}
		s.lastError = err
		s.logger.Warn("ocr failed", "path", s.ocrFile, "error", err)
		s.ocrFile = ""
		s.ocrLines = nil
		s.ocrCursor = -1
		s.state = StateImport
		return
	}

	s.ocrLines = ocrtext.Classify(text, s.blacklist)
	s.ocrCursor = firstCursor(len(s.ocrLines))
	s.logger.Info("ocr completed", "path", s.ocrFile, "lines", len(s.ocrLines))
}
