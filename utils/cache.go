package utils

import "image"

// ImageCache holds decoded images for the lifetime of one constructor.
// Every path is decoded at most once until Release is called.
type ImageCache struct {
	load   func(path string) (image.Image, error)
	images map[string]image.Image
}

// NewImageCache returns an empty cache. A nil load falls back to ReadImage.
func NewImageCache(load func(path string) (image.Image, error)) *ImageCache {
	if load == nil {
		load = ReadImage
	}
	return &ImageCache{
		load:   load,
		images: make(map[string]image.Image),
	}
}

func (c *ImageCache) Get(path string) (image.Image, error) {
	if img, ok := c.images[path]; ok {
		return img, nil
	}
	img, err := c.load(path)
	if err != nil {
		return nil, err
	}
	c.images[path] = img
	return img, nil
}

// Len reports how many decoded images the cache holds.
func (c *ImageCache) Len() int {
	return len(c.images)
}

// Release drops every decoded image. The cache stays usable afterwards.
func (c *ImageCache) Release() {
	clear(c.images)
}
