package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"Terra3D/internal/logger"
	"Terra3D/internal/scene"

	"github.com/g3n/engine/loader/obj"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ObjMesh is one drawable part of an OBJ model: the faces of one object that
// share a material.
type ObjMesh struct {
	Name     string
	Data     *scene.MeshData
	Material *scene.Material
	// TexturePath is the diffuse map named by the material, resolved against
	// the model directory. It is uploaded later, once a GL context exists.
	TexturePath string
}

// LoadOBJ decodes a Wavefront model. Materials are read from the .mtl file
// next to it when there is one.
func LoadOBJ(path string, recalculateNormals bool) ([]ObjMesh, error) {
	fobj, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fobj.Close()

	var mtl io.Reader = strings.NewReader("")
	mtlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"
	if fmtl, err := os.Open(mtlPath); err == nil {
		defer fmtl.Close()
		mtl = fmtl
	} else {
		logger.Log.Debug("No material library next to model", zap.String("path", mtlPath))
	}

	meshes, err := DecodeOBJ(fobj, mtl, filepath.Dir(path), recalculateNormals)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return meshes, nil
}

// DecodeOBJ decodes a model from readers. dir resolves texture paths.
func DecodeOBJ(objReader, mtlReader io.Reader, dir string, recalculateNormals bool) ([]ObjMesh, error) {
	dec, err := obj.DecodeReader(objReader, mtlReader)
	if err != nil {
		return nil, err
	}

	var meshes []ObjMesh
	for i := range dec.Objects {
		o := &dec.Objects[i]

		// faces of one object are grouped by material, first use first
		var order []string
		byMaterial := make(map[string][]*obj.Face)
		for j := range o.Faces {
			f := &o.Faces[j]
			if _, ok := byMaterial[f.Material]; !ok {
				order = append(order, f.Material)
			}
			byMaterial[f.Material] = append(byMaterial[f.Material], f)
		}

		for _, matName := range order {
			data, missingNormals := buildMeshData(dec, byMaterial[matName])
			if len(data.Indices) == 0 {
				continue
			}
			if recalculateNormals || missingNormals {
				data.Normals = RecalculateNormals(data.Positions, data.Indices)
			}

			name := o.Name
			if len(order) > 1 {
				name = o.Name + "/" + matName
			}
			m := ObjMesh{Name: name, Data: data, Material: scene.DefaultMaterial()}
			if src, ok := dec.Materials[matName]; ok {
				m.Material = convertMaterial(src)
				if src.MapKd != "" {
					m.TexturePath = filepath.Join(dir, src.MapKd)
				}
			}
			meshes = append(meshes, m)
		}
	}

	if len(meshes) == 0 {
		return nil, fmt.Errorf("model has no faces")
	}
	for _, w := range dec.Warnings {
		logger.Log.Warn("OBJ decoder warning", zap.String("warning", w))
	}
	logger.Log.Debug("Model decoded",
		zap.Int("objects", len(dec.Objects)),
		zap.Int("meshes", len(meshes)),
		zap.Int("materials", len(dec.Materials)))
	return meshes, nil
}

type vertexKey struct {
	v, vt, vn int
}

// buildMeshData turns OBJ faces, which index positions, texture coordinates
// and normals separately, into one indexed vertex buffer. Polygons are
// triangulated as fans.
func buildMeshData(dec *obj.Decoder, faces []*obj.Face) (*scene.MeshData, bool) {
	data := &scene.MeshData{}
	seen := make(map[vertexKey]uint32)
	missingNormals := false

	vertex := func(f *obj.Face, k int) uint32 {
		key := vertexKey{v: f.Vertices[k], vt: -1, vn: -1}
		if k < len(f.Uvs) {
			key.vt = f.Uvs[k]
		}
		if k < len(f.Normals) {
			key.vn = f.Normals[k]
		}
		if idx, ok := seen[key]; ok {
			return idx
		}
		idx := uint32(len(data.Positions) / 3)
		seen[key] = idx

		if p := key.v * 3; key.v >= 0 && p+2 < len(dec.Vertices) {
			data.Positions = append(data.Positions, dec.Vertices[p], dec.Vertices[p+1], dec.Vertices[p+2])
		} else {
			logger.Log.Warn("Vertex index out of bounds", zap.Int("index", key.v), zap.Int("vertices", len(dec.Vertices)/3))
			data.Positions = append(data.Positions, 0, 0, 0)
		}
		if t := key.vt * 2; key.vt >= 0 && t+1 < len(dec.Uvs) {
			// OBJ puts v=0 at the bottom of the image
			data.TexCoords = append(data.TexCoords, dec.Uvs[t], 1-dec.Uvs[t+1])
		} else {
			data.TexCoords = append(data.TexCoords, 0, 0)
		}
		if n := key.vn * 3; key.vn >= 0 && n+2 < len(dec.Normals) {
			data.Normals = append(data.Normals, dec.Normals[n], dec.Normals[n+1], dec.Normals[n+2])
		} else {
			missingNormals = true
			data.Normals = append(data.Normals, 0, 1, 0)
		}
		return idx
	}

	for _, f := range faces {
		if len(f.Vertices) < 3 {
			continue
		}
		first := vertex(f, 0)
		for k := 1; k+1 < len(f.Vertices); k++ {
			data.Indices = append(data.Indices, first, vertex(f, k), vertex(f, k+1))
		}
	}
	return data, missingNormals
}

func convertMaterial(src *obj.Material) *scene.Material {
	alpha := src.Opacity
	if alpha <= 0 {
		alpha = 1
	}
	m := scene.DefaultMaterial()
	m.AmbientColour = mgl32.Vec4{src.Ambient.R, src.Ambient.G, src.Ambient.B, alpha}
	m.DiffuseColour = mgl32.Vec4{src.Diffuse.R, src.Diffuse.G, src.Diffuse.B, alpha}
	m.SpecularColour = mgl32.Vec4{src.Specular.R, src.Specular.G, src.Specular.B, alpha}
	// Ns ranges over [0, 1000]
	m.Reflectance = mgl32.Clamp(src.Shininess/1000, 0, 1)
	return m
}

// RecalculateNormals averages the face normals around each vertex.
func RecalculateNormals(positions []float32, indices []uint32) []float32 {
	normals := make([]float32, len(positions))
	vertexCount := uint32(len(positions) / 3)

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		if i0 >= vertexCount || i1 >= vertexCount || i2 >= vertexCount {
			logger.Log.Warn("Index out of bounds while computing normals",
				zap.Uint32("i0", i0), zap.Uint32("i1", i1), zap.Uint32("i2", i2),
				zap.Uint32("vertices", vertexCount))
			continue
		}
		v0 := vec3At(positions, i0)
		v1 := vec3At(positions, i1)
		v2 := vec3At(positions, i2)

		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		for _, idx := range [...]uint32{i0, i1, i2} {
			normals[idx*3] += n[0]
			normals[idx*3+1] += n[1]
			normals[idx*3+2] += n[2]
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			n = mgl32.Vec3{0, 1, 0}
		} else {
			n = n.Normalize()
		}
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}
	return normals
}

func vec3At(data []float32, i uint32) mgl32.Vec3 {
	return mgl32.Vec3{data[i*3], data[i*3+1], data[i*3+2]}
}
