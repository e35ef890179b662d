// Package storage handles file uploads: internship agreement PDFs
// (encrypted at rest) and deliverable submission media.
package storage

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

type S3Service struct {
	client        *s3.Client
	uploader      *manager.Uploader
	downloader    *manager.Downloader
	bucket        string
	region        string
	encryptionKey []byte // 32-byte AES-256 key
}

type UploadResult struct {
	S3Key      string
	S3Bucket   string
	FileHash   string // SHA-256 hash of original file
	FileSize   int64
	MimeType   string
	UploadedAt time.Time
}

// submission media accepted for deliverable uploads
var allowedSubmissionExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".mp4": true, ".mov": true, ".pdf": true, ".zip": true,
}

// NewS3Service creates a new S3 service instance with MinIO support
func NewS3Service() (*S3Service, error) {
	bucket := os.Getenv("AWS_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET environment variable is required")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1" // default region
	}

	encryptionKeyHex := os.Getenv("DOCUMENT_ENCRYPTION_KEY")
	if encryptionKeyHex == "" {
		return nil, fmt.Errorf("DOCUMENT_ENCRYPTION_KEY environment variable is required (64 hex characters)")
	}

	encryptionKey, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key format: %w", err)
	}

	if len(encryptionKey) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes (64 hex characters)")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Custom endpoint for MinIO
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		endpointURL := os.Getenv("AWS_ENDPOINT_URL")
		if endpointURL != "" {
			o.BaseEndpoint = aws.String(endpointURL)
			o.UsePathStyle = true // MinIO requires path-style addressing
		}
	})

	return &S3Service{
		client:        client,
		uploader:      manager.NewUploader(client),
		downloader:    manager.NewDownloader(client),
		bucket:        bucket,
		region:        region,
		encryptionKey: encryptionKey,
	}, nil
}

// UploadAgreement uploads an internship agreement PDF, encrypted at rest.
func (s *S3Service) UploadAgreement(ctx context.Context, file multipart.File, header *multipart.FileHeader, partnershipID uuid.UUID) (*UploadResult, error) {
	if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		return nil, fmt.Errorf("only PDF files are allowed")
	}

	fileData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	hash := sha256.Sum256(fileData)
	fileHash := hex.EncodeToString(hash[:])

	encryptedData, err := s.encryptData(fileData)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt file: %w", err)
	}

	s3Key := fmt.Sprintf("agreements/%s/%s.pdf", partnershipID.String(), uuid.New().String())

	uploadInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        bytes.NewReader(encryptedData),
		ContentType: aws.String("application/pdf"),
		Metadata: map[string]string{
			"original-filename": header.Filename,
			"partnership-id":    partnershipID.String(),
			"original-hash":     fileHash,
			"encrypted":         "true",
		},
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	}

	_, err = s.uploader.Upload(ctx, uploadInput)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		S3Key:      s3Key,
		S3Bucket:   s.bucket,
		FileHash:   fileHash,
		FileSize:   int64(len(fileData)),
		MimeType:   "application/pdf",
		UploadedAt: time.Now().UTC(),
	}, nil
}

// UploadSubmission uploads a deliverable submission file. Submission media
// is not encrypted; companies preview it through presigned URLs.
func (s *S3Service) UploadSubmission(ctx context.Context, file multipart.File, header *multipart.FileHeader, deliverableID uuid.UUID) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedSubmissionExts[ext] {
		return nil, fmt.Errorf("file type %s is not allowed", ext)
	}

	fileData, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	hash := sha256.Sum256(fileData)
	fileHash := hex.EncodeToString(hash[:])

	s3Key := fmt.Sprintf("submissions/%s/%s%s", deliverableID.String(), uuid.New().String(), ext)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadInput := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s3Key),
		Body:        bytes.NewReader(fileData),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-filename": header.Filename,
			"deliverable-id":    deliverableID.String(),
			"original-hash":     fileHash,
		},
	}

	_, err = s.uploader.Upload(ctx, uploadInput)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		S3Key:      s3Key,
		S3Bucket:   s.bucket,
		FileHash:   fileHash,
		FileSize:   int64(len(fileData)),
		MimeType:   contentType,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// DownloadAgreement downloads and decrypts an agreement from S3.
func (s *S3Service) DownloadAgreement(ctx context.Context, s3Key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer([]byte{})

	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download from S3: %w", err)
	}

	decryptedData, err := s.decryptData(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt file: %w", err)
	}

	return decryptedData, nil
}

// GeneratePresignedURL generates a presigned URL for temporary access (for previews, etc.)
func (s *S3Service) GeneratePresignedURL(ctx context.Context, s3Key string, expiration time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(s.client)

	request, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiration
	})

	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeleteFile deletes a file from S3
func (s *S3Service) DeleteFile(ctx context.Context, s3Key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3Key),
	})

	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// encryptData encrypts data using AES-256-GCM
func (s *S3Service) encryptData(data []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, data, nil)
	return ciphertext, nil
}

// decryptData decrypts data using AES-256-GCM
func (s *S3Service) decryptData(encryptedData []byte) ([]byte, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(encryptedData) < nonceSize {
		return nil, fmt.Errorf("encrypted data too short")
	}

	nonce, ciphertext := encryptedData[:nonceSize], encryptedData[nonceSize:]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}

	return plaintext, nil
}
