package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParams(t *testing.T) {
	sum := sha1.Sum([]byte("folder=products&timestamp=1700000000&transformation=w_1200,q_auto,f_autosecret"))
	want := hex.EncodeToString(sum[:])

	got, err := SignParams(map[string]string{
		"timestamp":      "1700000000",
		"folder":         "products",
		"transformation": "w_1200,q_auto,f_auto",
		"empty":          "",
	}, "secret")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSignUpload(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := NewImageService(CloudCredentials{
		CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "products",
	}, fixedClock(now))

	sig, err := svc.SignUpload()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), sig.Timestamp)
	assert.Equal(t, "demo", sig.CloudName)
	assert.Equal(t, "key", sig.APIKey)
	assert.Equal(t, "products", sig.Folder)

	want, err := SignParams(map[string]string{
		"allowed_formats": "jpg,png,webp",
		"folder":          "products",
		"timestamp":       "1700000000",
		"transformation":  "w_1200,q_auto,f_auto",
	}, "secret")
	require.NoError(t, err)
	assert.Equal(t, want, sig.Signature)
	assert.Len(t, sig.Signature, 40)

	_, err = NewImageService(CloudCredentials{}, nil).SignUpload()
	assert.Error(t, err)
}

func TestDeleteImageWithoutStorage(t *testing.T) {
	svc := NewImageService(CloudCredentials{}, nil)

	assert.NoError(t, svc.DeleteImage(context.Background(), ""))
	assert.ErrorIs(t, svc.DeleteImage(context.Background(), "products/a"), errImagesNotConfigured)
}
