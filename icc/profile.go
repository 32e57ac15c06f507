// Package icc - colour profile handles backed by the lcms colour engine.
//
// The pixel engine never inspects ICC data itself; it holds Profile handles,
// asks them the two questions it cares about (is this sRGB, is this linear)
// and hands borrowed pixel buffers to Apply for in-place conversion.
package icc

import (
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	gol "github.com/yzigangirova/lcms-go"
	"github.com/yzigangirova/lcms-go/mem"
)

// mm is the memory manager threaded through every lcms call. Transform
// creation rejects a zero manager, so one is built up front.
var mm = mem.NewManager()

// Profile is a shared-ownership handle to an ICC colour profile.
//
// Handles are reference counted independently of images: Retain and Release
// must balance, and the underlying lcms handle is closed when the last
// reference goes away.
type Profile struct {
	handle gol.CmsHPROFILE
	refs   atomic.Int64

	srgb   bool
	linear bool
	desc   string
}

func newProfile(handle gol.CmsHPROFILE, srgb, linear bool, desc string) *Profile {
	p := &Profile{handle: handle, srgb: srgb, linear: linear, desc: desc}
	p.refs.Store(1)
	return p
}

// Retain increments the reference count and returns the profile. Safe on a
// nil receiver.
func (p *Profile) Retain() *Profile {
	if p != nil {
		p.refs.Add(1)
	}
	return p
}

// Release decrements the reference count, closing the lcms handle when it
// reaches zero. Safe on a nil receiver.
func (p *Profile) Release() {
	if p == nil {
		return
	}
	if p.refs.Add(-1) == 0 {
		gol.CmsCloseProfile(mm, p.handle)
		p.handle = nil
	}
}

// IsSRGB reports whether the profile encodes with the sRGB transfer curve.
func (p *Profile) IsSRGB() bool {
	return p != nil && p.srgb
}

// IsLinear reports whether the profile's transfer curve is the identity.
func (p *Profile) IsLinear() bool {
	return p != nil && p.linear
}

// Description returns the profile's description text.
func (p *Profile) Description() string {
	if p == nil {
		return ""
	}
	return p.desc
}

// rec709Primaries returns the Rec709/sRGB primaries with a D65 white point,
// the same chromaticities lcms uses for its built-in sRGB profile.
func rec709Primaries() (gol.CmsCIExyY, gol.CmsCIExyYTRIPLE) {
	var d65 gol.CmsCIExyY
	d65.X_small = 0.3127
	d65.Y_small = 0.3290
	d65.Y_large = 1.0

	var primaries gol.CmsCIExyYTRIPLE
	primaries.Red.X_small = 0.6400
	primaries.Red.Y_small = 0.3300
	primaries.Red.Y_large = 1.0
	primaries.Green.X_small = 0.3000
	primaries.Green.Y_small = 0.6000
	primaries.Green.Y_large = 1.0
	primaries.Blue.X_small = 0.1500
	primaries.Blue.Y_small = 0.0600
	primaries.Blue.Y_large = 1.0

	return d65, primaries
}

// NewSRGB creates the built-in sRGB profile.
func NewSRGB() (*Profile, error) {
	handle := gol.CmsCreate_sRGBProfile(mm)
	if handle == nil {
		return nil, errors.New("lcms could not create the sRGB profile")
	}
	return newProfile(handle, true, false, "sRGB built-in"), nil
}

// NewLinearSRGB creates an RGB profile with sRGB primaries and an identity
// transfer curve.
func NewLinearSRGB() (*Profile, error) {
	return newRGBWithGamma(1.0, false, true, "linear sRGB")
}

// NewRec709 creates an RGB profile with Rec709 primaries and the Rec709
// display gamma of 1/0.45.
func NewRec709() (*Profile, error) {
	return newRGBWithGamma(1.0/0.45, false, false, "Rec709")
}

func newRGBWithGamma(gamma float64, srgb, linear bool, desc string) (*Profile, error) {
	d65, primaries := rec709Primaries()

	curve := gol.CmsBuildGamma(mm, nil, gamma)
	if curve == nil {
		return nil, errors.New("lcms could not build the tone curve")
	}
	curves := []*gol.CmsToneCurve{curve, curve, curve}

	handle := gol.CmsCreateRGBProfile(mm, &d65, &primaries, curves)
	gol.CmsFreeToneCurve(curve)
	if handle == nil {
		return nil, errors.Errorf("lcms could not create the %s profile", desc)
	}

	return newProfile(handle, srgb, linear, desc), nil
}

// NewFromMemory opens a profile embedded in an image file.
//
// lcms offers no direct sRGB predicate, so the profile is tagged sRGB or
// linear from its description text; built-in constructors set the flags
// directly and loaded profiles that describe themselves as sRGB are
// recognised the same way.
func NewFromMemory(data []byte) (*Profile, error) {
	if len(data) == 0 {
		return nil, errors.New("empty ICC profile data")
	}

	handle := gol.CmsOpenProfileFromMem(mm, data, uint32(len(data)))
	if handle == nil {
		return nil, errors.New("lcms rejected the ICC profile data")
	}

	desc := profileDescription(handle)
	lowered := strings.ToLower(desc)
	srgb := strings.Contains(lowered, "srgb") && !strings.Contains(lowered, "linear")
	linear := strings.Contains(lowered, "linear")

	return newProfile(handle, srgb, linear, desc), nil
}

// CreateLinear returns a linear sibling of the profile: the same intent with
// an identity transfer curve. For a profile that is already linear the
// receiver itself is retained and returned.
func (p *Profile) CreateLinear() (*Profile, error) {
	if p == nil {
		return nil, errors.New("no profile to linearise")
	}
	if p.linear {
		return p.Retain(), nil
	}
	return NewLinearSRGB()
}

// profileDescription reads the description tag as ASCII.
func profileDescription(handle gol.CmsHPROFILE) string {
	var buf [256]byte
	// CmsInfoType 0 is the description tag.
	n := gol.CmsGetProfileInfoASCII(mm, handle, gol.CmsInfoType(0), "en", "US", buf[:], uint32(len(buf)))
	if n == 0 {
		return ""
	}
	desc := buf[:n]
	// The returned length counts the trailing NUL.
	if i := strings.IndexByte(string(desc), 0); i >= 0 {
		desc = desc[:i]
	}
	return string(desc)
}
