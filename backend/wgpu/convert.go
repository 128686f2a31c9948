package wgpu

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/present"
)

// toWGPUFormat converts a presentation texture format to the wgpu
// gputypes format.
func toWGPUFormat(f present.TextureFormat) gputypes.TextureFormat {
	switch f {
	case present.TextureFormatRGBA8:
		return gputypes.TextureFormatRGBA8Unorm
	case present.TextureFormatBGRA8:
		return gputypes.TextureFormatBGRA8Unorm
	case present.TextureFormatRGB10A2:
		return gputypes.TextureFormatRGB10A2Unorm
	case present.TextureFormatRGBA16Float:
		return gputypes.TextureFormatRGBA16Float
	default:
		return gputypes.TextureFormatBGRA8Unorm
	}
}

// fromWGPUFormat converts a wgpu gputypes format back to the
// presentation format. Unknown formats map to TextureFormatUnknown.
func fromWGPUFormat(f gputypes.TextureFormat) present.TextureFormat {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return present.TextureFormatRGBA8
	case gputypes.TextureFormatBGRA8Unorm:
		return present.TextureFormatBGRA8
	case gputypes.TextureFormatRGB10A2Unorm:
		return present.TextureFormatRGB10A2
	case gputypes.TextureFormatRGBA16Float:
		return present.TextureFormatRGBA16Float
	default:
		return present.TextureFormatUnknown
	}
}
