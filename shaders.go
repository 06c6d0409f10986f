package orrery

// WGSL sources for the three pipelines. Stars are instanced billboard
// quads: WebGPU has no point-size primitive, so the vertex stage expands
// six vertices per star around the projected center.
const starShaderWGSL = `
struct SceneUniform {
    view: mat4x4<f32>,
    proj: mat4x4<f32>,
    size_scale: f32,
    _pad0: f32,
    _pad1: f32,
    _pad2: f32,
};

@group(0) @binding(0) var<uniform> scene: SceneUniform;

struct VsIn {
    @builtin(vertex_index) vertex_index: u32,
    @location(0) center: vec3<f32>,
    @location(1) size: f32,
    @location(2) color: vec3<f32>,
};

struct VsOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec3<f32>,
};

fn corner_offset(i: u32) -> vec2<f32> {
    switch i {
        case 0u: { return vec2<f32>(-1.0, -1.0); }
        case 1u: { return vec2<f32>( 1.0, -1.0); }
        case 2u: { return vec2<f32>( 1.0,  1.0); }
        case 3u: { return vec2<f32>(-1.0, -1.0); }
        case 4u: { return vec2<f32>( 1.0,  1.0); }
        default: { return vec2<f32>(-1.0,  1.0); }
    }
}

@vertex
fn vs_main(in: VsIn) -> VsOut {
    var out: VsOut;
    let corner = corner_offset(in.vertex_index);

    // Fixed world-space extent: the projection divides by view depth, so
    // on-screen size falls off as base_size * k / depth.
    var view_pos = scene.view * vec4<f32>(in.center, 1.0);
    let half_extent = in.size * scene.size_scale;
    view_pos = vec4<f32>(view_pos.xy + corner * half_extent, view_pos.zw);

    out.clip = scene.proj * view_pos;
    out.uv = corner;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VsOut) -> @location(0) vec4<f32> {
    // Distance from the point center in normalized point space, where the
    // quad edge sits at 0.5.
    let dist = length(in.uv) * 0.5;

    // Tight bright core, wider halo, and the overall alpha mask.
    let core = 1.0 - smoothstep(0.0, 0.15, dist);
    let glow = 1.0 - smoothstep(0.0, 0.5, dist);
    let alpha = 1.0 - smoothstep(0.05, 0.5, dist);

    let rgb = in.color * (2.0 * core + 0.8 * glow) + vec3<f32>(0.5 * core);
    return vec4<f32>(rgb, alpha);
}
`

// Flat-colored line-list shader for orbit rings and the habitable-zone
// band in the system view.
const lineShaderWGSL = `
struct SceneUniform {
    view: mat4x4<f32>,
    proj: mat4x4<f32>,
    size_scale: f32,
    _pad0: f32,
    _pad1: f32,
    _pad2: f32,
};

@group(0) @binding(0) var<uniform> scene: SceneUniform;

struct VsIn {
    @location(0) pos: vec3<f32>,
    @location(1) color: vec3<f32>,
};

struct VsOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec3<f32>,
};

@vertex
fn vs_main(in: VsIn) -> VsOut {
    var out: VsOut;
    out.clip = scene.proj * scene.view * vec4<f32>(in.pos, 1.0);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VsOut) -> @location(0) vec4<f32> {
    return vec4<f32>(in.color, 0.85);
}
`

// Screen-space textured quad shader for hover labels. Positions arrive in
// NDC, precomputed on the CPU.
const labelShaderWGSL = `
@group(0) @binding(0) var label_tex: texture_2d<f32>;
@group(0) @binding(1) var label_sampler: sampler;

struct VsIn {
    @location(0) pos: vec2<f32>,
    @location(1) uv: vec2<f32>,
};

struct VsOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(in: VsIn) -> VsOut {
    var out: VsOut;
    out.clip = vec4<f32>(in.pos, 0.0, 1.0);
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VsOut) -> @location(0) vec4<f32> {
    return textureSample(label_tex, label_sampler, in.uv);
}
`
