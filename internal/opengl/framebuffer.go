package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"deferred-renderer/internal/gfx"
)

func (d *Device) CreateFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (d *Device) DeleteFramebuffer(id uint32) { gl.DeleteFramebuffers(1, &id) }

func (d *Device) BindFramebuffer(id uint32) { gl.BindFramebuffer(gl.FRAMEBUFFER, id) }

func attachmentPoint(slot gfx.Slot) uint32 {
	switch {
	case slot.IsColour():
		return gl.COLOR_ATTACHMENT0 + uint32(slot-gfx.Colour0)
	case slot == gfx.DepthStencil:
		return gl.DEPTH_STENCIL_ATTACHMENT
	}
	return gl.DEPTH_ATTACHMENT
}

// AttachTexture attaches a 2D texture to the bound framebuffer. id 0
// detaches.
func (d *Device) AttachTexture(slot gfx.Slot, id uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachmentPoint(slot), gl.TEXTURE_2D, id, 0)
}

// DrawBuffers declares the colour outputs of the bound framebuffer. An empty
// list makes it depth-only.
func (d *Device) DrawBuffers(slots []gfx.Slot) {
	if len(slots) == 0 {
		gl.DrawBuffer(gl.NONE)
		gl.ReadBuffer(gl.NONE)
		return
	}
	bufs := make([]uint32, len(slots))
	for i, s := range slots {
		bufs[i] = attachmentPoint(s)
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
	gl.ReadBuffer(bufs[0])
}

var statusNames = map[uint32]string{
	gl.FRAMEBUFFER_UNDEFINED:                     "undefined",
	gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:         "incomplete attachment",
	gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT: "missing attachment",
	gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:        "incomplete draw buffer",
	gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:        "incomplete read buffer",
	gl.FRAMEBUFFER_UNSUPPORTED:                   "unsupported",
	gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:        "incomplete multisample",
	gl.FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS:      "incomplete layer targets",
}

// FramebufferStatus checks completeness of the bound framebuffer.
func (d *Device) FramebufferStatus() error {
	s := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if s == gl.FRAMEBUFFER_COMPLETE {
		return nil
	}
	if name, ok := statusNames[s]; ok {
		return fmt.Errorf("%s (0x%X)", name, s)
	}
	return fmt.Errorf("status=0x%X", s)
}
