package wgsl

// Builtin name tables. A referenced name that is not declared at module
// scope must appear here to pass structural validation. The function list
// follows the WGSL builtin function section; the type list covers
// predeclared types and their shorthand aliases.

var builtinFunctions = map[string]bool{
	// Logical
	"all": true, "any": true, "select": true,
	// Array
	"arrayLength": true,
	// Numeric
	"abs": true, "acos": true, "acosh": true, "asin": true, "asinh": true,
	"atan": true, "atanh": true, "atan2": true, "ceil": true, "clamp": true,
	"cos": true, "cosh": true, "countLeadingZeros": true, "countOneBits": true,
	"countTrailingZeros": true, "cross": true, "degrees": true,
	"determinant": true, "distance": true, "dot": true, "dot4U8Packed": true,
	"dot4I8Packed": true, "exp": true, "exp2": true, "extractBits": true,
	"faceForward": true, "firstLeadingBit": true, "firstTrailingBit": true,
	"floor": true, "fma": true, "fract": true, "frexp": true,
	"insertBits": true, "inverseSqrt": true, "ldexp": true, "length": true,
	"log": true, "log2": true, "max": true, "min": true, "mix": true,
	"modf": true, "normalize": true, "pow": true, "quantizeToF16": true,
	"radians": true, "reflect": true, "refract": true, "reverseBits": true,
	"round": true, "saturate": true, "sign": true, "sin": true, "sinh": true,
	"smoothstep": true, "sqrt": true, "step": true, "tan": true, "tanh": true,
	"transpose": true, "trunc": true,
	// Derivative
	"dpdx": true, "dpdxCoarse": true, "dpdxFine": true,
	"dpdy": true, "dpdyCoarse": true, "dpdyFine": true,
	"fwidth": true, "fwidthCoarse": true, "fwidthFine": true,
	// Texture
	"textureDimensions": true, "textureGather": true,
	"textureGatherCompare": true, "textureLoad": true,
	"textureNumLayers": true, "textureNumLevels": true,
	"textureNumSamples": true, "textureSample": true,
	"textureSampleBias": true, "textureSampleCompare": true,
	"textureSampleCompareLevel": true, "textureSampleGrad": true,
	"textureSampleLevel": true, "textureSampleBaseClampToEdge": true,
	"textureStore": true,
	// Atomic
	"atomicLoad": true, "atomicStore": true, "atomicAdd": true,
	"atomicSub": true, "atomicMax": true, "atomicMin": true,
	"atomicAnd": true, "atomicOr": true, "atomicXor": true,
	"atomicExchange": true, "atomicCompareExchangeWeak": true,
	// Data packing
	"pack4x8snorm": true, "pack4x8unorm": true, "pack4xI8": true,
	"pack4xU8": true, "pack4xI8Clamp": true, "pack4xU8Clamp": true,
	"pack2x16snorm": true, "pack2x16unorm": true, "pack2x16float": true,
	"unpack4x8snorm": true, "unpack4x8unorm": true, "unpack4xI8": true,
	"unpack4xU8": true, "unpack2x16snorm": true, "unpack2x16unorm": true,
	"unpack2x16float": true,
	// Synchronization
	"storageBarrier": true, "textureBarrier": true, "workgroupBarrier": true,
	"workgroupUniformLoad": true,
	// Reinterpretation
	"bitcast": true,
}

var builtinTypes = map[string]bool{
	"bool": true, "f16": true, "f32": true, "i32": true, "u32": true,
	"vec2": true, "vec3": true, "vec4": true,
	"vec2f": true, "vec3f": true, "vec4f": true,
	"vec2h": true, "vec3h": true, "vec4h": true,
	"vec2i": true, "vec3i": true, "vec4i": true,
	"vec2u": true, "vec3u": true, "vec4u": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
	"mat2x2f": true, "mat2x3f": true, "mat2x4f": true,
	"mat3x2f": true, "mat3x3f": true, "mat3x4f": true,
	"mat4x2f": true, "mat4x3f": true, "mat4x4f": true,
	"mat2x2h": true, "mat2x3h": true, "mat2x4h": true,
	"mat3x2h": true, "mat3x3h": true, "mat3x4h": true,
	"mat4x2h": true, "mat4x3h": true, "mat4x4h": true,
	"array": true, "atomic": true, "ptr": true, "binding_array": true,
	"sampler": true, "sampler_comparison": true,
	"texture_1d": true, "texture_2d": true, "texture_2d_array": true,
	"texture_3d": true, "texture_cube": true, "texture_cube_array": true,
	"texture_multisampled_2d": true, "texture_depth_multisampled_2d": true,
	"texture_external": true,
	"texture_storage_1d": true, "texture_storage_2d": true,
	"texture_storage_2d_array": true, "texture_storage_3d": true,
	"texture_depth_2d": true, "texture_depth_2d_array": true,
	"texture_depth_cube": true, "texture_depth_cube_array": true,
}

// builtinWords covers the remaining predeclared identifiers that can land
// in a reference position: address spaces, access modes, texel formats,
// and the boolean literals.
var builtinWords = map[string]bool{
	"function": true, "private": true, "workgroup": true,
	"uniform": true, "storage": true,
	"read": true, "write": true, "read_write": true,
	"true": true, "false": true,
	"rgba8unorm": true, "rgba8snorm": true, "rgba8uint": true,
	"rgba8sint": true, "rgba16uint": true, "rgba16sint": true,
	"rgba16float": true, "r32uint": true, "r32sint": true, "r32float": true,
	"rg32uint": true, "rg32sint": true, "rg32float": true,
	"rgba32uint": true, "rgba32sint": true, "rgba32float": true,
	"bgra8unorm": true,
}

// IsBuiltin reports whether name is a predeclared WGSL identifier.
func IsBuiltin(name string) bool {
	return builtinFunctions[name] || builtinTypes[name] || builtinWords[name]
}
