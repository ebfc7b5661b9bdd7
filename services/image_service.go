package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"trendora/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type ImageService struct {
	cld *cloudinary.Cloudinary
}

func NewImageService() (*ImageService, error) {
	url := config.AppConfig.CloudinaryURL
	if url == "" {
		return nil, errors.New("cloudinary credentials not configured")
	}

	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &ImageService{cld: cld}, nil
}

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func (s *ImageService) ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > 10*1024*1024 {
		return errors.New("file too large (max 10MB)")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return errors.New("invalid file type. Only jpg, jpeg, png, gif, webp allowed")
	}
	return nil
}

func (s *ImageService) UploadImage(ctx context.Context, file multipart.File, filename, folder string) (string, string, error) {
	timestamp := time.Now().Unix()
	publicID := fmt.Sprintf("%s/%d_%s", folder, timestamp, strings.ReplaceAll(filename, " ", "_"))
	publicID = strings.TrimSuffix(publicID, filepath.Ext(publicID))

	uploadResult, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         folder,
		ResourceType:   "image",
		Transformation: "q_auto,f_auto",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	return uploadResult.SecureURL, uploadResult.PublicID, nil
}

func (s *ImageService) UploadProductImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := []string{}
	for _, fileHeader := range files {
		if err := s.ValidateImageFile(fileHeader); err != nil {
			return nil, err
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}

		url, _, err := s.UploadImage(ctx, file, fileHeader.Filename, "products")
		file.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (s *ImageService) DeleteImage(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %w", err)
	}
	return nil
}
