package gfx

import (
	"fmt"
	"slices"
)

// AttachmentSpec describes one texture a Target allocates for itself.
type AttachmentSpec struct {
	Slot   Slot
	Format Format
	Unit   int // sampler unit the texture is read from by later passes
	Linear bool
	Name   string // debug name, defaults to "<target>.<slot>"
}

// Target is an attachment set: a framebuffer object plus the textures bound
// to its slots. Textures it allocated are owned and released with it;
// textures passed to Attach are borrowed from another pass.
type Target struct {
	dev    Device
	fbo    uint32
	name   string
	width  int
	height int

	attachments map[Slot]*Texture
	owned       map[Slot]bool
	drawBuffers []Slot
	dirty       bool
}

// NewTarget creates an empty framebuffer of the given size.
func NewTarget(dev Device, name string, width, height int) *Target {
	return &Target{
		dev:         dev,
		fbo:         dev.CreateFramebuffer(),
		name:        name,
		width:       width,
		height:      height,
		attachments: make(map[Slot]*Texture),
		owned:       make(map[Slot]bool),
	}
}

func (t *Target) Name() string     { return t.name }
func (t *Target) ID() uint32       { return t.fbo }
func (t *Target) Size() (int, int) { return t.width, t.height }

// DrawBuffers returns the declared colour outputs.
func (t *Target) DrawBuffers() []Slot { return slices.Clone(t.drawBuffers) }

// Allocate creates one texture per spec at the target resolution, attaches
// it and takes ownership. The target is left bound.
func (t *Target) Allocate(specs ...AttachmentSpec) []*Texture {
	out := make([]*Texture, 0, len(specs))
	for _, s := range specs {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("%s.%s", t.name, s.Slot)
		}
		tex := NewTexture2D(t.dev, s.Unit, TextureDesc{
			Name:   name,
			Width:  t.width,
			Height: t.height,
			Format: s.Format,
			Linear: s.Linear,
		})
		t.Attach(s.Slot, tex)
		t.owned[s.Slot] = true
		out = append(out, tex)
	}
	return out
}

// Attach binds tex to slot. Attaching the texture already in the slot is a
// no-op. A texture of the wrong format for the slot is a fatal
// configuration error. A previously owned texture in the slot is released.
func (t *Target) Attach(slot Slot, tex *Texture) {
	if cur, ok := t.attachments[slot]; ok && cur == tex {
		return
	}
	t.Reattach(slot, tex)
}

// Reattach binds tex to slot unconditionally, even when it is already
// attached there.
func (t *Target) Reattach(slot Slot, tex *Texture) {
	if tex == nil {
		Fatal(t.name, "attach "+slot.String(), ErrNilTexture)
	}
	if !slot.Accepts(tex.Format()) {
		Fatal(t.name, "attach "+slot.String(),
			fmt.Errorf("%w: %s in %s", ErrIncompatibleFormat, tex.Format(), slot))
	}
	if cur, ok := t.attachments[slot]; ok && cur != tex {
		if t.owned[slot] {
			cur.Release()
		}
		delete(t.owned, slot)
	}
	t.dev.BindFramebuffer(t.fbo)
	t.dev.AttachTexture(slot, tex.ID())
	t.attachments[slot] = tex
	t.dirty = true
}

// Detach clears slot. An owned texture is released.
func (t *Target) Detach(slot Slot) {
	cur, ok := t.attachments[slot]
	if !ok {
		return
	}
	t.dev.BindFramebuffer(t.fbo)
	t.dev.AttachTexture(slot, 0)
	if t.owned[slot] {
		cur.Release()
	}
	delete(t.attachments, slot)
	delete(t.owned, slot)
	t.dirty = true
}

// SetDrawBuffers declares the colour slots fragment outputs are written to,
// in output-location order. An empty list makes the target depth-only.
func (t *Target) SetDrawBuffers(slots ...Slot) {
	for _, s := range slots {
		if !s.IsColour() {
			Fatal(t.name, "draw buffers", fmt.Errorf("%w: %s", ErrNotColourSlot, s))
		}
	}
	t.drawBuffers = slices.Clone(slots)
	t.dev.BindFramebuffer(t.fbo)
	t.dev.DrawBuffers(t.drawBuffers)
	t.dirty = true
}

// Complete reports whether every declared draw buffer has an attachment and
// the device accepts the framebuffer. It leaves the target bound.
func (t *Target) Complete() error {
	if len(t.attachments) == 0 {
		return ErrNoAttachments
	}
	for _, s := range t.drawBuffers {
		if _, ok := t.attachments[s]; !ok {
			return fmt.Errorf("%w: %s", ErrMissingAttachment, s)
		}
	}
	t.dev.BindFramebuffer(t.fbo)
	if err := t.dev.FramebufferStatus(); err != nil {
		return fmt.Errorf("%w: %w", ErrIncomplete, err)
	}
	return nil
}

// Verify panics with a *ConfigError unless the target is complete.
func (t *Target) Verify() {
	if err := t.Complete(); err != nil {
		Fatal(t.name, "verify", err)
	}
	t.dirty = false
}

// Bind makes the target the render destination and sets the viewport to its
// size. Pending attachment changes are verified first.
func (t *Target) Bind() {
	if t.dirty {
		t.Verify()
	}
	t.dev.BindFramebuffer(t.fbo)
	t.dev.Viewport(0, 0, t.width, t.height)
}

// Unbind restores the default framebuffer.
func (t *Target) Unbind() { t.dev.BindFramebuffer(0) }

// Texture returns the texture attached at slot, or nil.
func (t *Target) Texture(slot Slot) *Texture { return t.attachments[slot] }

// Owns reports whether the texture at slot was allocated by this target.
func (t *Target) Owns(slot Slot) bool { return t.owned[slot] }

// Release deletes owned textures and the framebuffer. Borrowed textures are
// left to their owner.
func (t *Target) Release() {
	if t.fbo == 0 {
		return
	}
	for slot, tex := range t.attachments {
		if t.owned[slot] {
			tex.Release()
		}
	}
	clear(t.attachments)
	clear(t.owned)
	t.dev.DeleteFramebuffer(t.fbo)
	t.fbo = 0
}
