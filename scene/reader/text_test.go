package reader

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/types"
)

func parseString(src string) (*Description, error) {
	res := asset.NewResourceFromStream("test.scn", strings.NewReader(src))
	defer res.Close()
	return newTextSceneReader().Read(res)
}

func TestParseScene(t *testing.T) {
	desc, err := parseString(`
# a comment
camera_size 320 200
camera_fov 90deg
camera_eye 0 1.5 -5
camera_look 0 1 0
camera_up 0 1 0
max_depth 3
light -10 10 -10 1 1 1

newmtl red
color 1 0 0
ambient 0.2
diffuse 0.6
specular 0.4
shininess 50
reflective 0.5
transparency 0.25
ior 1.33

newmtl floor
pattern checkers 1 1 1 0 0 0
pxform scale 0.5 0.5 0.5

sphere
usemtl red
xform scale 2 2 2
xform rotate_y 90deg
xform translate 0 1 0
cube
usemtl floor
plane
`)
	if err != nil {
		t.Fatal(err)
	}

	cam := desc.Camera
	if cam.Width != 320 || cam.Height != 200 {
		t.Fatalf("expected camera size 320x200; got %dx%d", cam.Width, cam.Height)
	}
	if !types.ApproxEqual(cam.FOV, math.Pi/2) {
		t.Fatalf("expected fov to be converted to radians; got %f", cam.FOV)
	}
	if cam.Eye != types.XYZ(0, 1.5, -5) || cam.Look != types.XYZ(0, 1, 0) || cam.Up != types.XYZ(0, 1, 0) {
		t.Fatalf("unexpected camera setup %+v", cam)
	}
	if desc.MaxDepth != 3 {
		t.Fatalf("expected max depth 3; got %d", desc.MaxDepth)
	}

	if len(desc.Lights) != 1 || desc.Lights[0].Position != types.XYZ(-10, 10, -10) || desc.Lights[0].Intensity != types.White {
		t.Fatalf("unexpected lights %+v", desc.Lights)
	}

	if len(desc.Materials) != 2 {
		t.Fatalf("expected 2 materials; got %d", len(desc.Materials))
	}
	red, _ := desc.Material("red")
	expRed := MaterialDescription{
		Name:            "red",
		Color:           types.RGB(1, 0, 0),
		Ambient:         0.2,
		Diffuse:         0.6,
		Specular:        0.4,
		Shininess:       50,
		Reflective:      0.5,
		Transparency:    0.25,
		RefractiveIndex: 1.33,
	}
	if *red != expRed {
		t.Fatalf("expected material %+v; got %+v", expRed, *red)
	}
	floor, _ := desc.Material("floor")
	if floor.Pattern == nil || floor.Pattern.Type != "checkers" || floor.Pattern.B != types.Black || len(floor.Pattern.Transform) != 1 {
		t.Fatalf("unexpected floor pattern %+v", floor.Pattern)
	}
	if floor.Diffuse != 0.9 || floor.Shininess != 200 {
		t.Fatalf("expected unset material properties to keep defaults; got %+v", floor)
	}

	type spec struct {
		kind     string
		material string
		ops      int
	}
	specs := []spec{
		{"sphere", "", 0},
		{"cube", "red", 3},
		{"plane", "floor", 0},
	}
	if len(desc.Shapes) != len(specs) {
		t.Fatalf("expected %d shapes; got %d", len(specs), len(desc.Shapes))
	}
	for specIndex, spec := range specs {
		shape := desc.Shapes[specIndex]
		if shape.Type != spec.kind || shape.Material != spec.material || len(shape.Transform) != spec.ops {
			t.Fatalf("[spec %d] expected %s with material %q and %d ops; got %+v", specIndex, spec.kind, spec.material, spec.ops, shape)
		}
	}

	if rot := desc.Shapes[1].Transform[1]; rot.Op != "rotate_y" || !types.ApproxEqual(rot.Args[0], math.Pi/2) {
		t.Fatalf("expected rotate_y angle in radians; got %+v", rot)
	}
}

func TestParseErrors(t *testing.T) {
	type spec struct {
		input  string
		expErr string
	}

	specs := []spec{
		{"light 1 2 3", "[test.scn: 1] error: unsupported syntax for 'light'; expected 6 arguments; got 3"},
		{"\n\nusemtl glass", "[test.scn: 3] error: undefined material with name 'glass'"},
		{"ambient 0.2", "[test.scn: 1] error: material property 'ambient' specified before newmtl"},
		{"newmtl a\nnewmtl a", "[test.scn: 2] error: duplicate material definition 'a'"},
		{"newmtl a\npxform scale 1 1 1", "[test.scn: 2] error: pattern transform specified before pattern"},
		{"newmtl a\npattern gradient 1 1 1 0 0 0", "[test.scn: 2] error: unknown pattern type 'gradient'"},
		{"newmtl a\ndiffuse -1", "[test.scn: 2] error: material property 'diffuse' must not be negative"},
		{"xform twist 1", "[test.scn: 1] error: unknown transform op 'twist'"},
		{"xform rotate_x", "[test.scn: 1] error: unsupported syntax for 'rotate_x'; expected 1 argument; got 0"},
		{"xform", "[test.scn: 1] error: missing transform op"},
		{"sphere 1", "[test.scn: 1] error: unsupported syntax for 'sphere'; expected 0 arguments; got 1"},
		{"cone", "[test.scn: 1] error: unknown directive 'cone'"},
		{"camera_fov 200deg", "[test.scn: 1] error: camera fov must be in the (0, 180) degree range"},
		{"camera_size 0 10", "[test.scn: 1] error: camera size must be at least 1x1"},
		{"max_depth -1", "[test.scn: 1] error: max_depth must not be negative"},
		{"call", "[test.scn: 1] error: unsupported syntax for 'call'; expected 1 argument; got 0"},
	}

	for specIndex, spec := range specs {
		_, err := parseString(spec.input)
		if err == nil || err.Error() != spec.expErr {
			t.Fatalf("[spec %d] expected error %q; got %v", specIndex, spec.expErr, err)
		}
	}
}

func TestParseZeroMaxDepth(t *testing.T) {
	desc, err := parseString("max_depth 0\nsphere")
	if err != nil {
		t.Fatal(err)
	}
	if desc.MaxDepth != 0 {
		t.Fatalf("expected max depth 0; got %d", desc.MaxDepth)
	}

	sc, err := desc.Build()
	if err != nil {
		t.Fatal(err)
	}
	if sc.MaxDepth != 0 {
		t.Fatalf("expected built scene max depth 0; got %d", sc.MaxDepth)
	}
}

func TestParseAngle(t *testing.T) {
	type spec struct {
		in  string
		exp float64
	}

	specs := []spec{
		{"0.5", 0.5},
		{"180deg", math.Pi},
		{"-45deg", -math.Pi / 4},
	}

	for specIndex, spec := range specs {
		out, err := parseAngle(spec.in)
		if err != nil {
			t.Fatalf("[spec %d] unexpected error: %v", specIndex, err)
		}
		if !types.ApproxEqual(out, spec.exp) {
			t.Fatalf("[spec %d] expected %f; got %f", specIndex, spec.exp, out)
		}
	}

	if _, err := parseAngle("rightdeg"); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestIncludeErrorStack(t *testing.T) {
	dir := t.TempDir()
	mainFile := filepath.Join(dir, "main.scn")
	incFile := filepath.Join(dir, "inc.scn")
	if err := os.WriteFile(mainFile, []byte("# main\ncall inc.scn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(incFile, []byte("bogus 1 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	expErr := fmt.Sprintf("[%s: 1] error: unknown directive 'bogus'\nreferenced from %s:2 [call]", incFile, mainFile)
	_, err := ReadDescription(mainFile)
	if err == nil || err.Error() != expErr {
		t.Fatalf("expected error:\n%s\ngot:\n%v", expErr, err)
	}
}

func TestIncludeCycle(t *testing.T) {
	dir := t.TempDir()
	mainFile := filepath.Join(dir, "main.scn")
	incFile := filepath.Join(dir, "inc.scn")
	selfFile := filepath.Join(dir, "self.scn")
	files := map[string]string{
		mainFile: "call inc.scn\n",
		incFile:  "sphere\ncall main.scn\n",
		selfFile: "call self.scn\n",
	}
	for name, data := range files {
		if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	type spec struct {
		file   string
		expErr string
	}
	specs := []spec{
		{
			mainFile,
			fmt.Sprintf("[%s: 2] error: include cycle detected for '%s'\nreferenced from %s:1 [call]", incFile, mainFile, mainFile),
		},
		{
			selfFile,
			fmt.Sprintf("[%s: 1] error: include cycle detected for '%s'", selfFile, selfFile),
		},
	}

	for specIndex, spec := range specs {
		_, err := ReadDescription(spec.file)
		if err == nil || err.Error() != spec.expErr {
			t.Fatalf("[spec %d] expected error:\n%s\ngot:\n%v", specIndex, spec.expErr, err)
		}
	}
}

func TestRemoteInclude(t *testing.T) {
	files := map[string]string{
		"/scenes/main.scn":   "call lights.scn\nsphere\n",
		"/scenes/lights.scn": "light 0 10 0 1 1 1\n",
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	desc, err := ReadDescription(server.URL + "/scenes/main.scn")
	if err != nil {
		t.Fatal(err)
	}
	if len(desc.Lights) != 1 || len(desc.Shapes) != 1 {
		t.Fatalf("expected 1 light and 1 shape; got %d and %d", len(desc.Lights), len(desc.Shapes))
	}
}

func TestReadReferenceScene(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	sceneFile := filepath.Join(filepath.Dir(thisFile), "..", "..", "scenes", "reference.scn")

	sc, err := ReadScene(sceneFile)
	if err != nil {
		t.Fatal(err)
	}

	if sc.Camera.HSize != 800 || sc.Camera.VSize != 400 {
		t.Fatalf("expected 800x400 camera; got %dx%d", sc.Camera.HSize, sc.Camera.VSize)
	}
	shapes := sc.World.Shapes()
	if len(shapes) != 2 || len(sc.World.Lights()) != 1 {
		t.Fatalf("expected 2 shapes and 1 light; got %d and %d", len(shapes), len(sc.World.Lights()))
	}
	cube := shapes[1].Material
	if cube.Transparency != 1 || cube.RefractiveIndex != 1.5 || cube.Reflective != 0.9 {
		t.Fatalf("unexpected cube material %+v", cube)
	}
	if shapes[0].Material.Pattern == nil {
		t.Fatal("expected the floor to use a pattern")
	}
}

func TestUnsupportedSceneFormat(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	_, err := ReadDescription(thisFile)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat; got %v", err)
	}
}
