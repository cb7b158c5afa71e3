package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/lumen/types"
)

// The camera maps pixels of a HSize x VSize frame to world space rays. It
// looks towards -z in its own frame with the image plane at z = -1.
type Camera struct {
	HSize uint32
	VSize uint32

	// Horizontal field of view (or vertical for portrait frames) in radians.
	FOV float64

	transform    types.Affine
	invTransform types.Affine

	halfWidth  float64
	halfHeight float64
	pixelSize  float64
}

// Create a new camera positioned at the origin.
func NewCamera(hsize, vsize uint32, fov float64) *Camera {
	c := &Camera{
		HSize:        hsize,
		VSize:        vsize,
		FOV:          fov,
		transform:    types.IdentAffine(),
		invTransform: types.IdentAffine(),
	}
	c.update()
	return c
}

// Set the world-to-camera transform, typically built via
// types.ViewTransform.
func (c *Camera) SetTransform(xform types.Affine) error {
	inv, err := xform.Inv()
	if err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	c.transform = xform
	c.invTransform = inv
	return nil
}

// Get the world-to-camera transform.
func (c *Camera) Transform() types.Affine {
	return c.transform
}

// Change the frame dimensions.
func (c *Camera) Resize(hsize, vsize uint32) {
	c.HSize = hsize
	c.VSize = vsize
	c.update()
}

// Get the world space size of a pixel on the image plane.
func (c *Camera) PixelSize() float64 {
	return c.pixelSize
}

// Generate a ray through the center of pixel (px, py). Pixel (0, 0) is the
// top-left corner of the frame.
func (c *Camera) RayForPixel(px, py uint32) types.Ray {
	xOffset := (float64(px) + 0.5) * c.pixelSize
	yOffset := (float64(py) + 0.5) * c.pixelSize

	// The camera looks towards -z so +x is to the left.
	worldX := c.halfWidth - xOffset
	worldY := c.halfHeight - yOffset

	pixel := c.invTransform.Point(types.XYZ(worldX, worldY, -1))
	origin := c.invTransform.Point(types.Vec3{})
	return types.NewRay(origin, pixel.Sub(origin).Normalize())
}

func (c *Camera) update() {
	halfView := math.Tan(c.FOV / 2)
	aspect := float64(c.HSize) / float64(c.VSize)
	if aspect >= 1 {
		c.halfWidth = halfView
		c.halfHeight = halfView / aspect
	} else {
		c.halfWidth = halfView * aspect
		c.halfHeight = halfView
	}
	c.pixelSize = c.halfWidth * 2 / float64(c.HSize)
}
