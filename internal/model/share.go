package model

import "time"

// TransformedImage mirrors the `transformed_images` table. It records one
// derived rendition of a photo: the serialized transformation parameters and
// the URL the image host serves the rendition from.
//
// Fields:
//  ID             – primary key identifier.
//  PhotoID        – source photo.
//  Transformation – JSON-serialized transform parameters.
//  ImageURL       – URL of the transformed rendition.
//  CreatedAt      – timestamp of creation.
type TransformedImage struct {
	ID             uint64    // transformed_images.id
	PhotoID        uint64    // transformed_images.photo_id
	Transformation string    // transformed_images.transformation
	ImageURL       string    // transformed_images.image_url
	CreatedAt      time.Time // transformed_images.created_at
}

// PublicLink mirrors the `public_links` table. The UUID is the only thing a
// visitor needs to view the shared rendition; no authentication is involved.
//
// Fields:
//  ID                 – primary key identifier.
//  TransformedImageID – rendition being shared.
//  UUID               – random public identifier of the link.
//  QRCodeURL          – public URL encoded into the link's QR code.
//  CreatedAt          – timestamp of creation.
type PublicLink struct {
	ID                 uint64    // public_links.id
	TransformedImageID uint64    // public_links.transformed_image_id
	UUID               string    // public_links.uuid
	QRCodeURL          string    // public_links.qr_code_url
	CreatedAt          time.Time // public_links.created_at
}
