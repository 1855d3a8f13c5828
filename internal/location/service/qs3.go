package service

import (
	"context"
	"encoding/binary"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gocloud.dev/blob"
	"gocloud.dev/blob/s3blob"

	pmanerrors "github.com/go-pman/pman/internal/errors"
)

// QS3Credentials is the decoded form of a Descriptor's opaque credentials
// blob: a bucket/region pair plus an access key and secret key pair, signed
// into every request by the AWS SDK's standard V4 signer.
type QS3Credentials struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// EncodeQS3Credentials packs c into the bytes a Descriptor carries as its
// credentials blob: length-prefixed fields in a fixed order.
func EncodeQS3Credentials(c QS3Credentials) []byte {
	var out []byte
	for _, field := range []string{c.Bucket, c.Region, c.Endpoint, c.AccessKey, c.SecretKey} {
		var lenBuf [2]byte
		binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(field)))
		out = append(out, lenBuf[:]...)
		out = append(out, field...)
	}
	return out
}

// DecodeQS3Credentials is the decode counterpart to EncodeQS3Credentials.
func DecodeQS3Credentials(data []byte) (QS3Credentials, error) {
	fields := make([]string, 0, 5)
	idx := 0
	for i := 0; i < 5; i++ {
		if idx+2 > len(data) {
			return QS3Credentials{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "qs3 credentials: truncated field length")
		}
		l := int(binary.LittleEndian.Uint16(data[idx : idx+2]))
		idx += 2
		if idx+l > len(data) {
			return QS3Credentials{}, pmanerrors.Wrap(pmanerrors.ErrInvalidData, "qs3 credentials: truncated field")
		}
		fields = append(fields, string(data[idx:idx+l]))
		idx += l
	}
	return QS3Credentials{
		Bucket:    fields[0],
		Region:    fields[1],
		Endpoint:  fields[2],
		AccessKey: fields[3],
		SecretKey: fields[4],
	}, nil
}

// QS3Handler downloads and uploads a single object in a signed remote
// object store bucket, addressed by path within the bucket named by its
// credentials.
type QS3Handler struct {
	bucket *blob.Bucket
	path   string
}

// NewQS3Handler opens a bucket for creds and targets path within it.
func NewQS3Handler(ctx context.Context, path string, creds QS3Credentials) (*QS3Handler, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(creds.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(creds.AccessKey, creds.SecretKey, "")),
	)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "loading qs3 aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if creds.Endpoint != "" {
			o.BaseEndpoint = aws.String(creds.Endpoint)
		}
	})

	bucket, err := s3blob.OpenBucketV2(ctx, client, creds.Bucket, nil)
	if err != nil {
		return nil, pmanerrors.Wrap(err, "opening qs3 bucket")
	}
	return &QS3Handler{bucket: bucket, path: path}, nil
}

// Download implements domain.Handler.
func (h *QS3Handler) Download(ctx context.Context) ([]byte, error) {
	data, err := h.bucket.ReadAll(ctx, h.path)
	if err != nil {
		return nil, pmanerrors.Wrap(pmanerrors.ErrIO, err.Error())
	}
	return data, nil
}

// Upload implements domain.Handler.
func (h *QS3Handler) Upload(ctx context.Context, data []byte) error {
	if err := h.bucket.WriteAll(ctx, h.path, data, nil); err != nil {
		return pmanerrors.Wrap(pmanerrors.ErrIO, err.Error())
	}
	return nil
}

// Close releases the underlying bucket connection.
func (h *QS3Handler) Close() error {
	return h.bucket.Close()
}
