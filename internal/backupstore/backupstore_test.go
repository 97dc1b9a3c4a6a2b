package backupstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"storefront/internal/models"
)

type bufferCloser struct {
	bytes.Buffer
	closeErr error
}

func (b *bufferCloser) Close() error { return b.closeErr }

func testBackup() *models.Backup {
	return &models.Backup{
		ID:        uuid.MustParse("6f1c9a8e-3b2d-4c5e-9f7a-1b2c3d4e5f60"),
		Queries:   []models.Query{{ID: uuid.New(), Message: "Where is my order?"}},
		Responses: []models.AutomatedResponse{{ID: uuid.New(), ResponseText: "Thanks!"}},
		CreatedAt: time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC),
	}
}

func TestGCSUploader_Upload(t *testing.T) {
	buf := &bufferCloser{}
	var gotObject string
	u := NewUploaderWithWriter("shop-backups", func(_ context.Context, object string) io.WriteCloser {
		gotObject = object
		return buf
	})

	uri, err := u.Upload(context.Background(), testBackup())
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	wantObject := "backups/2024/05/01/6f1c9a8e-3b2d-4c5e-9f7a-1b2c3d4e5f60.json"
	if gotObject != wantObject {
		t.Errorf("object = %q, want %q", gotObject, wantObject)
	}
	if uri != "gs://shop-backups/"+wantObject {
		t.Errorf("Upload() uri = %q", uri)
	}

	var decoded models.Backup
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("uploaded body is not JSON: %v", err)
	}
	if len(decoded.Queries) != 1 || decoded.Queries[0].Message != "Where is my order?" {
		t.Errorf("uploaded queries = %+v", decoded.Queries)
	}
}

func TestGCSUploader_CloseError(t *testing.T) {
	u := NewUploaderWithWriter("b", func(context.Context, string) io.WriteCloser {
		return &bufferCloser{closeErr: errors.New("permission denied")}
	})

	if _, err := u.Upload(context.Background(), testBackup()); err == nil {
		t.Error("Upload() error = nil, want finalize failure")
	}
	if err := u.Close(); err != nil {
		t.Errorf("Close() without client = %v, want nil", err)
	}
}
