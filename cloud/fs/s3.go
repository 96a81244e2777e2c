// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package fs

import (
	"bytes"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// AWSProfile is the shared credentials profile, if ~/.aws/credentials exists.
const AWSProfile = "terrastream"

type S3Filesystem struct {
	svc    *s3.S3
	bucket string
	prefix string
}

func NewS3Filesystem(session *session.Session, bucket, prefix string) (*S3Filesystem, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3: missing bucket")
	}
	return &S3Filesystem{
		svc:    s3.New(session),
		bucket: bucket,
		prefix: prefix,
	}, nil
}

// NewAWSSession prefers the shared credentials file and otherwise falls back to the
// SDK's default chain (environment, instance role).
func NewAWSSession(region string) (*session.Session, error) {
	config := &aws.Config{Region: aws.String(region)}

	if usr, err := user.Current(); err == nil {
		path := filepath.Join(usr.HomeDir, ".aws", "credentials")
		if _, statErr := os.Stat(path); statErr == nil {
			config.Credentials = credentials.NewSharedCredentials(path, AWSProfile)
		}
	}

	return session.NewSession(config)
}

func (s3Filesystem *S3Filesystem) UploadSnapshot(filename string, secondsCache int, data []byte) error {
	req, _ := s3Filesystem.svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:       aws.String(s3Filesystem.bucket),
		Key:          aws.String(s3Filesystem.prefix + filename),
		Body:         bytes.NewReader(data),
		CacheControl: aws.String(fmt.Sprintf("no-transform, public, max-age=%d", secondsCache)),
		ContentType:  contentType(filename),
	})
	return req.Send()
}
