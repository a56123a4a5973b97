package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/scanline/pkg/math3d"
)

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// Load reads a model file, choosing the decoder by extension
// (.glb, .gltf, .obj or .stl).
func Load(path string) (*Mesh, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".glb", ".gltf":
		return LoadGLB(path)
	case ".obj", ".stl":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	var mesh *Mesh
	if ext == ".obj" {
		mesh, err = LoadOBJ(f)
	} else {
		mesh, err = LoadSTL(f)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// LoadOBJ reads Wavefront OBJ geometry. Only "v" and "f" records are used;
// polygons with more than three corners are split into a triangle fan.
func LoadOBJ(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			v, err := parseVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, f := range fields[1:] {
				i, err := objIndex(f, len(mesh.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx = append(idx, i)
			}
			for i := 1; i+1 < len(idx); i++ {
				mesh.AddFace(idx[0], idx[i], idx[i+1], -1)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// objIndex resolves a face corner such as "3", "3/1" or "-1//2" to a
// zero-based vertex index. Negative indices count back from the last vertex.
func objIndex(corner string, count int) (int, error) {
	ref, _, _ := strings.Cut(corner, "/")
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("parse face index %q: %w", corner, err)
	}
	i := n - 1
	if n < 0 {
		i = count + n
	}
	if n == 0 || i < 0 || i >= count {
		return 0, fmt.Errorf("face index %d out of range for %d vertices", n, count)
	}
	return i, nil
}

// LoadSTL reads ASCII STL. Every three "vertex" records form one triangle.
func LoadSTL(r io.Reader) (*Mesh, error) {
	mesh := NewMesh("")
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		v, err := parseVec3(fields[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		mesh.Vertices = append(mesh.Vertices, v)
		if n := len(mesh.Vertices); n%3 == 0 {
			mesh.AddFace(n-3, n-2, n-1, -1)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read stl: %w", err)
	}
	if len(mesh.Vertices)%3 != 0 {
		return nil, fmt.Errorf("stl has %d vertices, not a multiple of 3", len(mesh.Vertices))
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func parseVec3(fields []string) (math3d.Vec3, error) {
	if len(fields) < 3 {
		return math3d.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	var c [3]float64
	for i := range 3 {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("parse coordinate %q: %w", fields[i], err)
		}
		c[i] = f
	}
	return math3d.V3(c[0], c[1], c[2]), nil
}
