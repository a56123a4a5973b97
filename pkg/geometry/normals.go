package geometry

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// weldScale quantizes positions so that seam vertices produced by different
// triangles are treated as the same vertex.
const weldScale = 1e4

// FaceNormal returns (b - a) × (c - a). It is not normalized, so larger
// triangles weigh more when normals are averaged.
func FaceNormal(a, b, c math3d.Vec3) math3d.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

type weldKey [3]int64

func keyOf(v math3d.Vec3) weldKey {
	return weldKey{
		int64(math.Round(v.X * weldScale)),
		int64(math.Round(v.Y * weldScale)),
		int64(math.Round(v.Z * weldScale)),
	}
}

// VertexNormals returns one unit normal per point of p, computed by averaging
// the normals of every triangle sharing that position. The result is aligned
// index for index with p and is the input expected by Gouraud and Phong
// shading.
func VertexNormals(p PolygonList) []math3d.Vec3 {
	sums := make(map[weldKey]math3d.Vec3, len(p)/2)
	for i := range p.Len() {
		a, b, c := p.Triangle(i)
		n := FaceNormal(a.Vec3(), b.Vec3(), c.Vec3())
		for _, v := range [3]math3d.Vec4{a, b, c} {
			k := keyOf(v.Vec3())
			sums[k] = sums[k].Add(n)
		}
	}

	normals := make([]math3d.Vec3, len(p))
	for i, v := range p[:p.Len()*3] {
		normals[i] = sums[keyOf(v.Vec3())].Normalize()
	}
	return normals
}
