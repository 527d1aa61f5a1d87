package validation

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
)

func buildFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
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

	return form.File["file"][0]
}

func TestValidateFileAcceptsPDF(t *testing.T) {
	header := buildFileHeader(t, "izin.pdf", "application/pdf", []byte("%PDF-1.4\nsome pdf content"))

	err := ValidateFile(header, PermitConstraints(1<<20))
	if err != nil {
		t.Errorf("pdf rejected: %v", err)
	}
}

func TestValidateFileAcceptsZip(t *testing.T) {
	// "PK\x03\x04" is the zip local file header magic.
	content := append([]byte("PK\x03\x04"), make([]byte, 64)...)
	header := buildFileHeader(t, "belgeler.zip", "application/zip", content)

	err := ValidateFile(header, PermitConstraints(1<<20))
	if err != nil {
		t.Errorf("zip rejected: %v", err)
	}
}

func TestValidateFileLegacyWordFallsBackToDeclaredType(t *testing.T) {
	// Legacy .doc has no sniff entry; content detects as octet-stream.
	content := []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1, 0x00, 0x00}
	header := buildFileHeader(t, "izin.doc", "application/msword", content)

	err := ValidateFile(header, PermitConstraints(1<<20))
	if err != nil {
		t.Errorf("legacy word document rejected: %v", err)
	}
}

func TestValidateFileRejectsText(t *testing.T) {
	header := buildFileHeader(t, "notes.pdf", "application/pdf", []byte("just plain text, not a pdf"))

	err := ValidateFile(header, PermitConstraints(1<<20))
	if err == nil {
		t.Error("text content with pdf name accepted")
	}
}

func TestValidateFileRejectsBadExtension(t *testing.T) {
	header := buildFileHeader(t, "script.exe", "application/pdf", []byte("%PDF-1.4\ncontent"))

	err := ValidateFile(header, PermitConstraints(1<<20))
	if err == nil {
		t.Error("disallowed extension accepted")
	}
}

func TestValidateFileRejectsOversize(t *testing.T) {
	content := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 2048)...)
	header := buildFileHeader(t, "big.pdf", "application/pdf", content)

	err := ValidateFile(header, PermitConstraints(1024))
	if err == nil {
		t.Fatal("oversize file accepted")
	}
	if !strings.Contains(err.Error(), "MB") {
		t.Errorf("error = %q, want the size limit in the message", err.Error())
	}
}
