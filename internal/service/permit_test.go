package service

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/lkd-web/kurs/internal/model"
)

const testMaxPermitSize = 1 << 20

type permitFixture struct {
	*appFixture
	service *PermitService
	app     *model.Application
}

func newPermitFixture(t *testing.T) *permitFixture {
	t.Helper()

	base := newAppFixture()
	event := base.addEvent(3)
	course := base.addCourse(event.ID, true, time.Now().Add(24*time.Hour))

	app, err := base.service.Apply("person-1", course.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("seeding application failed: %v", err)
	}

	audit := NewAuditService(base.logs)
	return &permitFixture{
		appFixture: base,
		service:    NewPermitService(base.permitRepo, base.appRepo, base.storage, audit, testMaxPermitSize),
		app:        app,
	}
}

// multipartFile builds a real multipart.FileHeader the way the HTTP layer
// produces one.
func multipartFile(t *testing.T, filename, contentType string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="permit"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create part: %v", err)
	}
	_, err = part.Write(content)
	if err != nil {
		t.Fatalf("failed to write part: %v", err)
	}
	writer.Close()

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	fileHeader := form.File["permit"][0]
	file, err := fileHeader.Open()
	if err != nil {
		t.Fatalf("failed to open file: %v", err)
	}
	t.Cleanup(func() { file.Close() })

	return file, fileHeader
}

func pdfContent() []byte {
	return []byte("%PDF-1.4\n" + strings.Repeat("x", 128))
}

func TestPermitUpload(t *testing.T) {
	f := newPermitFixture(t)
	file, header := multipartFile(t, "izin.pdf", "application/pdf", pdfContent())

	permit, err := f.service.Upload("person-1", f.app.ID, file, header, "10.0.0.1")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if permit.OriginalName != "izin.pdf" {
		t.Errorf("original name = %s, want izin.pdf", permit.OriginalName)
	}
	if !strings.HasPrefix(permit.StoragePath, "permits/") {
		t.Errorf("storage path = %s, want permits/ prefix", permit.StoragePath)
	}
	if !strings.HasSuffix(permit.StoragePath, ".pdf") {
		t.Errorf("storage path = %s, want .pdf suffix", permit.StoragePath)
	}
	if !f.storage.has(permit.StoragePath) {
		t.Error("uploaded file missing from storage")
	}
}

func TestPermitUploadReplacesPrevious(t *testing.T) {
	f := newPermitFixture(t)

	file, header := multipartFile(t, "first.pdf", "application/pdf", pdfContent())
	first, err := f.service.Upload("person-1", f.app.ID, file, header, "10.0.0.1")
	if err != nil {
		t.Fatalf("first Upload failed: %v", err)
	}

	file, header = multipartFile(t, "second.pdf", "application/pdf", pdfContent())
	second, err := f.service.Upload("person-1", f.app.ID, file, header, "10.0.0.1")
	if err != nil {
		t.Fatalf("second Upload failed: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("replacement created a new row: %s != %s", second.ID, first.ID)
	}
	if second.OriginalName != "second.pdf" {
		t.Errorf("original name = %s, want second.pdf", second.OriginalName)
	}
	if f.storage.has(first.StoragePath) {
		t.Error("old file still in storage after replacement")
	}
	if !f.storage.has(second.StoragePath) {
		t.Error("new file missing from storage")
	}
	if f.storage.count() != 1 {
		t.Errorf("storage holds %d files, want 1", f.storage.count())
	}
}

func TestPermitUploadRejectsBadType(t *testing.T) {
	f := newPermitFixture(t)
	file, header := multipartFile(t, "notes.txt", "text/plain", []byte("plain text content here"))

	_, err := f.service.Upload("person-1", f.app.ID, file, header, "10.0.0.1")
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("err = %v, want ErrInvalidFile", err)
	}

	if f.storage.count() != 0 {
		t.Error("rejected file was saved to storage")
	}
	_, err = f.permitRepo.ByApplicationID(f.app.ID)
	if err == nil {
		t.Error("rejected upload created a permit row")
	}
}

func TestPermitUploadRejectsOversize(t *testing.T) {
	f := newPermitFixture(t)
	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), testMaxPermitSize+1)...)
	file, header := multipartFile(t, "big.pdf", "application/pdf", big)

	_, err := f.service.Upload("person-1", f.app.ID, file, header, "10.0.0.1")
	if !errors.Is(err, ErrInvalidFile) {
		t.Fatalf("err = %v, want ErrInvalidFile", err)
	}
	if f.storage.count() != 0 {
		t.Error("oversize file was saved to storage")
	}
}

func TestPermitUploadRequiresOwnership(t *testing.T) {
	f := newPermitFixture(t)
	file, header := multipartFile(t, "izin.pdf", "application/pdf", pdfContent())

	_, err := f.service.Upload("person-2", f.app.ID, file, header, "10.0.0.1")
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("err = %v, want ErrApplicationNotFound", err)
	}
}

func TestPermitLookup(t *testing.T) {
	f := newPermitFixture(t)

	_, err := f.service.Permit("person-1", f.app.ID)
	if !errors.Is(err, ErrPermitNotFound) {
		t.Fatalf("err = %v, want ErrPermitNotFound before upload", err)
	}

	file, header := multipartFile(t, "izin.pdf", "application/pdf", pdfContent())
	uploaded, err := f.service.Upload("person-1", f.app.ID, file, header, "10.0.0.1")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	permit, err := f.service.Permit("person-1", f.app.ID)
	if err != nil {
		t.Fatalf("Permit failed: %v", err)
	}
	if permit.ID != uploaded.ID {
		t.Errorf("permit id = %s, want %s", permit.ID, uploaded.ID)
	}
	if url := f.service.URL(permit); !strings.Contains(url, permit.StoragePath) {
		t.Errorf("url = %s, want it to reference %s", url, permit.StoragePath)
	}
}
