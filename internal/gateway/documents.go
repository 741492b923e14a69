package gateway

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

// uploadField is the multipart field the service reads the file from.
const uploadField = "pdf"

func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	req := request{group: GroupDocuments, method: http.MethodGet, path: join(c.routes.Documents)}
	if err := c.do(ctx, req, &docs); err != nil {
		return nil, err
	}
	return normalizeAll(docs), nil
}

func (c *Client) UploadDocument(ctx context.Context, upload domain.Upload) (domain.Document, error) {
	body, contentType, err := multipartBody(upload)
	if err != nil {
		return domain.Document{}, err
	}
	req := request{
		group:       GroupDocuments,
		method:      http.MethodPost,
		path:        join(c.routes.Documents),
		body:        body,
		contentType: contentType,
	}
	var doc domain.Document
	if err := c.do(ctx, req, &doc); err != nil {
		return domain.Document{}, err
	}
	return doc.Normalize(), nil
}

func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	req := request{group: GroupDocuments, method: http.MethodDelete, path: join(c.routes.Documents, id)}
	return c.do(ctx, req, nil)
}

func (c *Client) RetryDocument(ctx context.Context, id string) (domain.Document, error) {
	req := request{
		group:       GroupDocuments,
		method:      http.MethodPost,
		path:        join(c.routes.Documents, id, "retry"),
		body:        []byte("{}"),
		contentType: "application/json",
	}
	var doc domain.Document
	if err := c.do(ctx, req, &doc); err != nil {
		return domain.Document{}, err
	}
	return doc.Normalize(), nil
}

// SeedDocuments asks the service to create the template documents.
func (c *Client) SeedDocuments(ctx context.Context) ([]domain.Document, error) {
	req := request{
		group:       GroupDocuments,
		method:      http.MethodPost,
		path:        join(c.routes.Documents, "seed-ncert"),
		body:        []byte("{}"),
		contentType: "application/json",
	}
	var resp struct {
		Documents []domain.Document `json:"pdfs"`
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return normalizeAll(resp.Documents), nil
}

func multipartBody(upload domain.Upload) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, upload.FileName))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create upload part: %w", err)
	}
	if _, err := part.Write(upload.Content); err != nil {
		return nil, "", fmt.Errorf("write upload part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close upload body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func normalizeAll(docs []domain.Document) []domain.Document {
	out := make([]domain.Document, len(docs))
	for i, d := range docs {
		out[i] = d.Normalize()
	}
	return out
}
