package renderer

// ── Shared vertex stage ───────────────────────────────────────────────────────

// quadVertSrc passes the full-screen quad through untransformed.
const quadVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;

out vec2 fragUV;

void main() {
    fragUV      = inTexCoord;
    gl_Position = vec4(inPosition, 1.0);
}
` + "\x00"

// ── Lighting ──────────────────────────────────────────────────────────────────

// lightingFragSrc: Blinn-Phong over the G-buffer. World position is
// rebuilt from depth with the inverse projection and view matrices. The
// first directional light is shadowed when shadowEnabled is set.
const lightingFragSrc = `
#version 410 core
in  vec2 fragUV;
layout(location = 0) out vec4 outColour;

#define MAX_DIR_LIGHTS   4
#define MAX_POINT_LIGHTS 32
#define MAX_SPOT_LIGHTS  8

struct DirLight {
    vec3 Direction;
    vec3 Colour;
};

struct PointLight {
    vec3  Position;
    vec3  Colour;
    float Linear;
    float Quadratic;
};

struct SpotLight {
    vec3  Position;
    vec3  Direction;
    vec3  Colour;
    float InnerCutOff; // cosine
    float OuterCutOff; // cosine
    float Linear;
    float Quadratic;
};

struct AmbientLight {
    float Intensity;
    vec3  Colour;
};

uniform sampler2D gNormal;     // RGB = world normal
uniform sampler2D gAlbedoSpec; // RGB = albedo, A = specular
uniform sampler2D gDepth;
uniform sampler2D gShadowMap;

uniform bool shadowEnabled;
uniform mat4 lightToViewMtx; // world → light clip space

uniform DirLight   dirLights[MAX_DIR_LIGHTS];
uniform PointLight pointLights[MAX_POINT_LIGHTS];
uniform SpotLight  spotLights[MAX_SPOT_LIGHTS];
uniform vec3       LightCount; // (directional, point, spot)

uniform AmbientLight ambientLight;

uniform vec3 viewPos;
uniform mat4 viewMatrixInv;
uniform mat4 projMatrixInv;

vec3 worldPosition(vec2 uv, float depth) {
    vec4 clip = vec4(uv * 2.0 - 1.0, depth * 2.0 - 1.0, 1.0);
    vec4 view = projMatrixInv * clip;
    view /= view.w;
    return (viewMatrixInv * view).xyz;
}

float shadowFactor(vec3 P, vec3 N, vec3 L) {
    if (!shadowEnabled) {
        return 1.0;
    }
    vec4 lp = lightToViewMtx * vec4(P, 1.0);
    vec3 p  = lp.xyz / lp.w * 0.5 + 0.5;
    if (p.z > 1.0) {
        return 1.0;
    }
    float bias  = max(0.005 * (1.0 - dot(N, L)), 0.0005);
    vec2  texel = 1.0 / vec2(textureSize(gShadowMap, 0));
    float lit   = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            float closest = texture(gShadowMap, p.xy + vec2(x, y) * texel).r;
            lit += (p.z - bias) > closest ? 0.0 : 1.0;
        }
    }
    return lit / 9.0;
}

vec3 shade(vec3 L, vec3 colour, vec3 N, vec3 V, vec3 albedo, float spec) {
    float diff = max(dot(N, L), 0.0);
    vec3  H    = normalize(L + V);
    float s    = pow(max(dot(N, H), 0.0), 32.0) * spec;
    return (diff * albedo + vec3(s)) * colour;
}

float attenuation(float d, float linear, float quadratic) {
    return 1.0 / (1.0 + linear * d + quadratic * d * d);
}

void main() {
    float depth = texture(gDepth, fragUV).r;
    if (depth >= 1.0) {
        discard; // background, filled by the skybox
    }

    vec3  P      = worldPosition(fragUV, depth);
    vec3  N      = normalize(texture(gNormal, fragUV).rgb);
    vec4  as     = texture(gAlbedoSpec, fragUV);
    vec3  albedo = as.rgb;
    float spec   = as.a;
    vec3  V      = normalize(viewPos - P);

    vec3 result = ambientLight.Intensity * ambientLight.Colour * albedo;

    int nDir = min(int(LightCount.x), MAX_DIR_LIGHTS);
    for (int i = 0; i < nDir; i++) {
        vec3  L = normalize(-dirLights[i].Direction);
        float s = i == 0 ? shadowFactor(P, N, L) : 1.0;
        result += s * shade(L, dirLights[i].Colour, N, V, albedo, spec);
    }

    int nPoint = min(int(LightCount.y), MAX_POINT_LIGHTS);
    for (int i = 0; i < nPoint; i++) {
        vec3  toLight = pointLights[i].Position - P;
        float d       = length(toLight);
        float att     = attenuation(d, pointLights[i].Linear, pointLights[i].Quadratic);
        result += att * shade(toLight / d, pointLights[i].Colour, N, V, albedo, spec);
    }

    int nSpot = min(int(LightCount.z), MAX_SPOT_LIGHTS);
    for (int i = 0; i < nSpot; i++) {
        vec3  toLight = spotLights[i].Position - P;
        float d       = length(toLight);
        vec3  L       = toLight / d;
        float theta   = dot(L, normalize(-spotLights[i].Direction));
        float eps     = spotLights[i].InnerCutOff - spotLights[i].OuterCutOff;
        float cone    = clamp((theta - spotLights[i].OuterCutOff) / eps, 0.0, 1.0);
        float att     = attenuation(d, spotLights[i].Linear, spotLights[i].Quadratic);
        result += cone * att * shade(L, spotLights[i].Colour, N, V, albedo, spec);
    }

    outColour = vec4(result, 1.0);
}
` + "\x00"

// ── Skybox ────────────────────────────────────────────────────────────────────

// skyVertSrc: view has its translation stripped by the caller; the xyww
// swizzle puts every fragment on the far plane.
const skyVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;

uniform mat4 view;
uniform mat4 projection;

out vec3 fragDir;

void main() {
    fragDir     = inPosition;
    vec4 pos    = projection * view * vec4(inPosition, 1.0);
    gl_Position = pos.xyww;
}
` + "\x00"

const skyFragSrc = `
#version 410 core
in  vec3 fragDir;
layout(location = 0) out vec4 outColour;

uniform samplerCube skyboxTex;

void main() {
    outColour = vec4(texture(skyboxTex, fragDir).rgb, 1.0);
}
` + "\x00"

// ── HDR bright pass ───────────────────────────────────────────────────────────

// brightFragSrc: keeps pixels whose luminance reaches threshold.
const brightFragSrc = `
#version 410 core
in  vec2 fragUV;
layout(location = 0) out vec4 outColour;

uniform sampler2D texInColour;
uniform float     threshold;

void main() {
    vec3  colour = texture(texInColour, fragUV).rgb;
    float luma   = dot(colour, vec3(0.2126, 0.7152, 0.0722));
    outColour = vec4(colour * step(threshold, luma), 1.0);
}
` + "\x00"

// ── Bloom ─────────────────────────────────────────────────────────────────────

// blurFragSrc: single-axis 5-tap Gaussian.
// texelDir = (1/w, 0) for horizontal, (0, 1/h) for vertical.
const blurFragSrc = `
#version 410 core
in  vec2 fragUV;
layout(location = 0) out vec4 outColour;

uniform sampler2D blurTex;
uniform vec2      texelDir;

void main() {
    const float w[5] = float[](0.0625, 0.25, 0.375, 0.25, 0.0625);
    vec3 result = vec3(0.0);
    for (int i = -2; i <= 2; i++) {
        result += texture(blurTex, fragUV + float(i) * texelDir).rgb * w[i + 2];
    }
    outColour = vec4(result, 1.0);
}
` + "\x00"

// compositeFragSrc: bloom add, exposure tone map, gamma 2.2.
const compositeFragSrc = `
#version 410 core
in  vec2 fragUV;
layout(location = 0) out vec4 outColour;

uniform sampler2D hdrBuffer;
uniform sampler2D bloomTex;
uniform float     exposure;
uniform float     bloomStrength;

void main() {
    vec3 hdr = texture(hdrBuffer, fragUV).rgb;
    hdr += texture(bloomTex, fragUV).rgb * bloomStrength;

    vec3 mapped = vec3(1.0) - exp(-hdr * exposure);
    mapped = pow(mapped, vec3(1.0 / 2.2));

    outColour = vec4(mapped, 1.0);
}
` + "\x00"

// ── FXAA ──────────────────────────────────────────────────────────────────────

const fxaaFragSrc = `
#version 410 core
in  vec2 fragUV;
layout(location = 0) out vec4 outColour;

uniform sampler2D texInColour;
uniform vec2      texelSize;

const float SPAN_MAX   = 8.0;
const float REDUCE_MUL = 1.0 / 8.0;
const float REDUCE_MIN = 1.0 / 128.0;

void main() {
    const vec3 luma = vec3(0.299, 0.587, 0.114);
    float lumaNW = dot(texture(texInColour, fragUV + vec2(-1.0, -1.0) * texelSize).rgb, luma);
    float lumaNE = dot(texture(texInColour, fragUV + vec2( 1.0, -1.0) * texelSize).rgb, luma);
    float lumaSW = dot(texture(texInColour, fragUV + vec2(-1.0,  1.0) * texelSize).rgb, luma);
    float lumaSE = dot(texture(texInColour, fragUV + vec2( 1.0,  1.0) * texelSize).rgb, luma);
    vec3  rgbM   = texture(texInColour, fragUV).rgb;
    float lumaM  = dot(rgbM, luma);

    float lumaMin = min(lumaM, min(min(lumaNW, lumaNE), min(lumaSW, lumaSE)));
    float lumaMax = max(lumaM, max(max(lumaNW, lumaNE), max(lumaSW, lumaSE)));

    vec2 dir = vec2(-((lumaNW + lumaNE) - (lumaSW + lumaSE)),
                      (lumaNW + lumaSW) - (lumaNE + lumaSE));
    float reduce = max((lumaNW + lumaNE + lumaSW + lumaSE) * 0.25 * REDUCE_MUL, REDUCE_MIN);
    float rcpMin = 1.0 / (min(abs(dir.x), abs(dir.y)) + reduce);
    dir = clamp(dir * rcpMin, vec2(-SPAN_MAX), vec2(SPAN_MAX)) * texelSize;

    vec3 rgbA = 0.5 * (texture(texInColour, fragUV + dir * (1.0 / 3.0 - 0.5)).rgb +
                       texture(texInColour, fragUV + dir * (2.0 / 3.0 - 0.5)).rgb);
    vec3 rgbB = rgbA * 0.5 + 0.25 * (texture(texInColour, fragUV + dir * -0.5).rgb +
                                     texture(texInColour, fragUV + dir *  0.5).rgb);
    float lumaB = dot(rgbB, luma);

    outColour = vec4((lumaB < lumaMin || lumaB > lumaMax) ? rgbA : rgbB, 1.0);
}
` + "\x00"
