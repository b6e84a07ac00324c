package blob

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MediaStorage is the attachment collaborator: it takes a byte stream plus
// filename and hands back a stable id to store in message metadata. Content
// itself lives in GridFS, outside the relational store.
type MediaStorage struct {
	bucket *gridfs.Bucket
}

func NewMediaStorage(db *mongo.Database) (*MediaStorage, error) {
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &MediaStorage{bucket: bucket}, nil
}

type StoredFile struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime"`
	UploadedAt time.Time `json:"uploaded_at"`
}

func (ms *MediaStorage) Upload(ctx context.Context, filename, mimeType string, content io.Reader) (*StoredFile, error) {
	metadata := bson.M{
		"mime_type":   mimeType,
		"uploaded_at": time.Now().UTC(),
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := ms.bucket.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer stream.Close()

	size, err := io.Copy(stream, content)
	if err != nil {
		return nil, fmt.Errorf("file copy failed: %w", err)
	}

	return &StoredFile{
		ID:         stream.FileID.(primitive.ObjectID).Hex(),
		Filename:   filename,
		Size:       size,
		MimeType:   mimeType,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (ms *MediaStorage) Download(ctx context.Context, fileID string) (io.ReadCloser, *StoredFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid file id: %w", err)
	}

	stream, err := ms.bucket.OpenDownloadStream(objectID)
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	info := stream.GetFile()
	var metadata bson.M
	if info.Metadata != nil {
		_ = bson.Unmarshal(info.Metadata, &metadata)
	}

	file := &StoredFile{
		ID:         fileID,
		Filename:   info.Name,
		Size:       info.Length,
		MimeType:   metaString(metadata, "mime_type"),
		UploadedAt: info.UploadDate,
	}

	return stream, file, nil
}

func metaString(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
