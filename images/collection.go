package images

import "fmt"

// CollectionCapacity bounds how many images a Collection can hold.
const CollectionCapacity = 32

// Collection is a small fixed-capacity ordered sequence of images, used for
// things like mip chains and texture arrays. Misuse (nil image, overflow,
// bad index) is a programming error and panics.
type Collection struct {
	items [CollectionCapacity]*Image
	count int
}

// Add appends an image, retaining a shared reference.
func (c *Collection) Add(img *Image) {
	if img == nil {
		panic("images: Collection.Add with nil image")
	}
	if c.count >= CollectionCapacity {
		panic(fmt.Sprintf("images: Collection is full (%d images)", CollectionCapacity))
	}
	c.items[c.count] = img.Retain()
	c.count++
}

// Count returns the number of stored images.
func (c *Collection) Count() int {
	return c.count
}

// At returns the image at index.
func (c *Collection) At(index int) *Image {
	if index < 0 || index >= c.count {
		panic(fmt.Sprintf("images: Collection index %d out of range [0, %d)", index, c.count))
	}
	return c.items[index]
}

// Release drops every held reference and empties the collection.
func (c *Collection) Release() {
	for i := 0; i < c.count; i++ {
		c.items[i].Release()
		c.items[i] = nil
	}
	c.count = 0
}
