package services

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"pos-api/dtos"
)

const (
	uploadTransformation = "w_1200,q_auto,f_auto"
	uploadAllowedFormats = "jpg,png,webp"
)

var errImagesNotConfigured = errors.New("image storage is not configured")

// ImageDeleter removes a stored image by its public id.
type ImageDeleter interface {
	DeleteImage(ctx context.Context, publicID string) error
}

type ImageService interface {
	ImageDeleter
	SignUpload() (*dtos.UploadSignature, error)
}

type CloudCredentials struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func (c CloudCredentials) configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type imageService struct {
	creds CloudCredentials
	cld   *cloudinary.Cloudinary
	now   Clock
}

func NewImageService(creds CloudCredentials, now Clock) ImageService {
	if now == nil {
		now = time.Now
	}
	s := &imageService{creds: creds, now: now}
	if creds.configured() {
		cld, err := cloudinary.NewFromParams(creds.CloudName, creds.APIKey, creds.APISecret)
		if err != nil {
			zap.L().Warn("image storage client unavailable", zap.Error(err))
		} else {
			s.cld = cld
		}
	}
	return s
}

// SignUpload issues a short-lived signature the client uses to upload
// straight to object storage.
func (s *imageService) SignUpload() (*dtos.UploadSignature, error) {
	if !s.creds.configured() {
		return nil, errors.New("upload signing is not configured")
	}
	timestamp := s.now().Unix()
	signature, err := SignParams(map[string]string{
		"allowed_formats": uploadAllowedFormats,
		"folder":          s.creds.Folder,
		"timestamp":       strconv.FormatInt(timestamp, 10),
		"transformation":  uploadTransformation,
	}, s.creds.APISecret)
	if err != nil {
		return nil, err
	}
	return &dtos.UploadSignature{
		Signature:      signature,
		Timestamp:      timestamp,
		APIKey:         s.creds.APIKey,
		CloudName:      s.creds.CloudName,
		Folder:         s.creds.Folder,
		Transformation: uploadTransformation,
		AllowedFormats: uploadAllowedFormats,
	}, nil
}

// SignParams signs the non-empty params with the account secret.
func SignParams(params map[string]string, secret string) (string, error) {
	values := url.Values{}
	for k, v := range params {
		if v != "" {
			values.Set(k, v)
		}
	}
	signature, err := api.SignParameters(values, secret)
	if err != nil {
		return "", pkgerrors.Wrap(err, "sign upload params")
	}
	return signature, nil
}

// DeleteImage destroys an uploaded image. An image that is already gone
// counts as deleted.
func (s *imageService) DeleteImage(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	if s.cld == nil {
		return errImagesNotConfigured
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return pkgerrors.Wrapf(err, "destroy image %s", publicID)
	}
	if res.Error.Message != "" {
		return pkgerrors.Errorf("destroy image %s: %s", publicID, res.Error.Message)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return pkgerrors.Errorf("destroy image %s: unexpected result %q", publicID, res.Result)
	}
	return nil
}
