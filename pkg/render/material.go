package render

import (
	"fmt"
	"strings"

	"github.com/taigrr/meshview/pkg/math3d"
)

// Material is a fixed-function material: RGBA reflectances in [0, 1] and a
// specular exponent.
type Material struct {
	Name      string
	Ambient   [4]float64
	Diffuse   [4]float64
	Specular  [4]float64
	Shininess float64
}

// Material presets.
var (
	MaterialDefault = Material{
		Name:      "default",
		Ambient:   [4]float64{1, 1, 1, 1},
		Diffuse:   [4]float64{1, 1, 1, 1},
		Specular:  [4]float64{1, 1, 1, 1},
		Shininess: 120,
	}
	MaterialGold = Material{
		Name:      "gold",
		Ambient:   [4]float64{0.9, 0.667, 0.0, 1},
		Diffuse:   [4]float64{0.9, 0.749, 0.251, 1},
		Specular:  [4]float64{0.9, 0.816, 0.451, 1},
		Shininess: 50,
	}
	MaterialSilver = Material{
		Name:      "silver",
		Ambient:   [4]float64{0.3, 0.3, 0.3, 1},
		Diffuse:   [4]float64{0.7, 0.7, 0.7, 1},
		Specular:  [4]float64{0.7, 0.7, 0.7, 1},
		Shininess: 51.2,
	}
	MaterialEmerald = Material{
		Name:      "emerald",
		Ambient:   [4]float64{0.143, 0.549, 0.143, 1},
		Diffuse:   [4]float64{0.143, 0.549, 0.143, 1},
		Specular:  [4]float64{0.733, 0.927811, 0.733, 1},
		Shininess: 76.8,
	}
	MaterialTin = Material{
		Name:      "tin",
		Ambient:   [4]float64{0.405882, 0.358824, 0.413725, 1},
		Diffuse:   [4]float64{0.727451, 0.770588, 0.841176, 1},
		Specular:  [4]float64{0.633333, 0.633333, 0.821569, 1},
		Shininess: 59.84615,
	}
)

// Materials lists the presets in menu order.
var Materials = []Material{MaterialDefault, MaterialGold, MaterialSilver, MaterialEmerald, MaterialTin}

// ParseMaterial returns the preset with the given name.
func ParseMaterial(name string) (Material, error) {
	for _, m := range Materials {
		if strings.EqualFold(m.Name, name) {
			return m, nil
		}
	}
	return Material{}, fmt.Errorf("unknown material %q", name)
}

// Light is a directional light fixed in eye space.
type Light struct {
	// Direction points from the surface toward the light.
	Direction math3d.Vec3
	Diffuse   float64
	Specular  float64
}

// GlobalAmbient is the scene ambient intensity applied to the material's
// ambient reflectance.
const GlobalAmbient = 0.2

// DefaultLights are the three white directional lights of the viewer.
func DefaultLights() []Light {
	return []Light{
		{Direction: math3d.V3(10, 10, -10), Diffuse: 0.8, Specular: 0.8},
		{Direction: math3d.V3(-10, 10, -10), Diffuse: 0.8, Specular: 0.8},
		{Direction: math3d.V3(0, 0, 10), Diffuse: 0.8, Specular: 0.8},
	}
}
