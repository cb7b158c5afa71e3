package reader

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// Angle arguments with this suffix are specified in degrees.
const degSuffix = "deg"

type textSceneReader struct {
	logger log.Logger

	// The parsed scene.
	desc *Description

	// The material currently being defined by a newmtl block.
	curMaterial *MaterialDescription

	// The material assigned to shapes emitted from now on.
	activeMaterial string

	// Transform ops accumulated for the next shape.
	pendingXform Transform

	// An error stack that provides additional error information when
	// scene files include other files.
	errStack []string

	// Paths of the files currently being parsed.
	openFiles []string
}

// Create a new text scene reader.
func newTextSceneReader() *textSceneReader {
	return &textSceneReader{
		logger: log.New("scene reader"),
		desc:   NewDescription(),
	}
}

// Read scene description.
func (r *textSceneReader) Read(sceneRes *asset.Resource) (*Description, error) {
	r.logger.Noticef(`parsing scene from "%s"`, sceneRes.Path())
	start := time.Now()

	if err := r.parse(sceneRes); err != nil {
		return nil, err
	}

	if len(r.pendingXform) != 0 {
		r.logger.Warningf("ignoring %d trailing xform ops not followed by a shape", len(r.pendingXform))
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Milliseconds())
	return r.desc, nil
}

// Generate an error message that also includes any data in the error stack.
func (r *textSceneReader) emitError(file string, line int, msgFormat string, args ...interface{}) error {
	msg := fmt.Sprintf(msgFormat, args...)
	return errors.New(strings.Trim(
		fmt.Sprintf("[%s: %d] error: %s\n%s", file, line, msg, strings.Join(r.errStack, "\n")),
		"\n",
	))
}

// Push a frame to the error stack.
func (r *textSceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *textSceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Check whether a file is already being parsed further up the include chain.
func (r *textSceneReader) isOpen(path string) bool {
	for _, open := range r.openFiles {
		if open == path {
			return true
		}
	}
	return false
}

func (r *textSceneReader) parse(res *asset.Resource) error {
	r.openFiles = append(r.openFiles, res.Path())
	defer func() { r.openFiles = r.openFiles[:len(r.openFiles)-1] }()

	lineNum := 0

	scanner := bufio.NewScanner(res)
	for scanner.Scan() {
		lineNum++
		lineTokens := strings.Fields(scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		if err := r.parseLine(res, lineNum, lineTokens); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return r.emitError(res.Path(), lineNum, "%s", err)
	}
	return nil
}

func (r *textSceneReader) parseLine(res *asset.Resource, lineNum int, lineTokens []string) error {
	var err error

	switch lineTokens[0] {
	case "call":
		if len(lineTokens) != 2 {
			return r.emitError(res.Path(), lineNum, "%s", argCountError(lineTokens[0], 1, len(lineTokens)-1))
		}

		r.pushFrame(fmt.Sprintf("referenced from %s:%d [call]", res.Path(), lineNum))
		incRes, err := asset.NewResource(lineTokens[1], res)
		if err != nil {
			r.popFrame()
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
		if r.isOpen(incRes.Path()) {
			incRes.Close()
			r.popFrame()
			return r.emitError(res.Path(), lineNum, "include cycle detected for '%s'", incRes.Path())
		}
		err = r.parse(incRes)
		incRes.Close()
		if err != nil {
			return err
		}
		r.popFrame()
	case "camera_fov":
		if len(lineTokens) != 2 {
			return r.emitError(res.Path(), lineNum, "%s", argCountError(lineTokens[0], 1, len(lineTokens)-1))
		}
		if r.desc.Camera.FOV, err = parseAngle(lineTokens[1]); err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
		if r.desc.Camera.FOV <= 0 || r.desc.Camera.FOV >= math.Pi {
			return r.emitError(res.Path(), lineNum, "camera fov must be in the (0, 180) degree range")
		}
	case "camera_size":
		args, err := parseFloats(lineTokens, 2)
		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
		if args[0] < 1 || args[1] < 1 {
			return r.emitError(res.Path(), lineNum, "camera size must be at least 1x1")
		}
		r.desc.Camera.Width, r.desc.Camera.Height = uint32(args[0]), uint32(args[1])
	case "camera_eye":
		if r.desc.Camera.Eye, err = parseVec3(lineTokens); err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
	case "camera_look":
		if r.desc.Camera.Look, err = parseVec3(lineTokens); err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
	case "camera_up":
		if r.desc.Camera.Up, err = parseVec3(lineTokens); err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
	case "max_depth":
		args, err := parseFloats(lineTokens, 1)
		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
		if args[0] < 0 {
			return r.emitError(res.Path(), lineNum, "max_depth must not be negative")
		}
		r.desc.MaxDepth = int(args[0])
	case "light":
		args, err := parseFloats(lineTokens, 6)
		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
		r.desc.Lights = append(r.desc.Lights, LightDescription{
			Position:  types.XYZ(args[0], args[1], args[2]),
			Intensity: types.RGB(args[3], args[4], args[5]),
		})
	case "newmtl":
		if len(lineTokens) != 2 {
			return r.emitError(res.Path(), lineNum, "%s", argCountError(lineTokens[0], 1, len(lineTokens)-1))
		}
		if _, exists := r.desc.Material(lineTokens[1]); exists {
			return r.emitError(res.Path(), lineNum, "duplicate material definition '%s'", lineTokens[1])
		}
		r.curMaterial = NewMaterialDescription(lineTokens[1])
		r.desc.Materials = append(r.desc.Materials, r.curMaterial)
	case "color", "pattern", "pxform", "ambient", "diffuse", "specular", "shininess", "reflective", "transparency", "ior":
		if r.curMaterial == nil {
			return r.emitError(res.Path(), lineNum, "material property '%s' specified before newmtl", lineTokens[0])
		}
		if err = r.parseMaterialProperty(lineTokens); err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
	case "usemtl":
		if len(lineTokens) != 2 {
			return r.emitError(res.Path(), lineNum, "%s", argCountError(lineTokens[0], 1, len(lineTokens)-1))
		}
		if _, exists := r.desc.Material(lineTokens[1]); !exists {
			return r.emitError(res.Path(), lineNum, "undefined material with name '%s'", lineTokens[1])
		}
		r.activeMaterial = lineTokens[1]
	case "xform":
		op, err := parseTransformOp(lineTokens[1:])
		if err != nil {
			return r.emitError(res.Path(), lineNum, "%s", err)
		}
		r.pendingXform = append(r.pendingXform, op)
	case "sphere", "plane", "cube", "cylinder":
		if len(lineTokens) != 1 {
			return r.emitError(res.Path(), lineNum, "%s", argCountError(lineTokens[0], 0, len(lineTokens)-1))
		}
		r.desc.Shapes = append(r.desc.Shapes, ShapeDescription{
			Type:      lineTokens[0],
			Transform: r.pendingXform,
			Material:  r.activeMaterial,
		})
		r.pendingXform = nil
	default:
		return r.emitError(res.Path(), lineNum, "unknown directive '%s'", lineTokens[0])
	}

	return nil
}

func (r *textSceneReader) parseMaterialProperty(lineTokens []string) error {
	mat := r.curMaterial

	switch lineTokens[0] {
	case "color":
		args, err := parseFloats(lineTokens, 3)
		if err != nil {
			return err
		}
		mat.Color = types.RGB(args[0], args[1], args[2])
		mat.Pattern = nil
	case "pattern":
		if len(lineTokens) != 8 {
			return fmt.Errorf("unsupported syntax for 'pattern'; expected 7 arguments: type r g b r g b; got %d", len(lineTokens)-1)
		}
		args, err := parseFloats(lineTokens[1:], 6)
		if err != nil {
			return err
		}
		if _, ok := scene.PatternTypeFromName(lineTokens[1]); !ok {
			return fmt.Errorf("unknown pattern type '%s'", lineTokens[1])
		}
		mat.Pattern = &PatternDescription{
			Type: lineTokens[1],
			A:    types.RGB(args[0], args[1], args[2]),
			B:    types.RGB(args[3], args[4], args[5]),
		}
	case "pxform":
		if mat.Pattern == nil {
			return errors.New("pattern transform specified before pattern")
		}
		op, err := parseTransformOp(lineTokens[1:])
		if err != nil {
			return err
		}
		mat.Pattern.Transform = append(mat.Pattern.Transform, op)
	default:
		args, err := parseFloats(lineTokens, 1)
		if err != nil {
			return err
		}
		v := args[0]
		if v < 0 {
			return fmt.Errorf("material property '%s' must not be negative", lineTokens[0])
		}

		switch lineTokens[0] {
		case "ambient":
			mat.Ambient = v
		case "diffuse":
			mat.Diffuse = v
		case "specular":
			mat.Specular = v
		case "shininess":
			mat.Shininess = v
		case "reflective":
			mat.Reflective = v
		case "transparency":
			mat.Transparency = v
		case "ior":
			mat.RefractiveIndex = v
		}
	}

	return nil
}

// Parse a transform op. The first token is the op name.
func parseTransformOp(tokens []string) (TransformOp, error) {
	if len(tokens) == 0 {
		return TransformOp{}, errors.New("missing transform op")
	}

	op := TransformOp{Op: tokens[0], Args: make([]float64, len(tokens)-1)}
	if err := checkTransformOp(op.Op, len(op.Args)); err != nil {
		return op, err
	}

	// Index of the angle argument for rotations.
	angleArg := -1
	switch op.Op {
	case "rotate_x", "rotate_y", "rotate_z":
		angleArg = 0
	case "rotate_axis":
		angleArg = 3
	}

	var err error
	for argIndex, token := range tokens[1:] {
		if argIndex == angleArg {
			op.Args[argIndex], err = parseAngle(token)
		} else {
			op.Args[argIndex], err = strconv.ParseFloat(token, 64)
		}
		if err != nil {
			return op, err
		}
	}
	return op, nil
}

// Parse an angle in radians. A "deg" suffix selects degrees.
func parseAngle(token string) (float64, error) {
	if strings.HasSuffix(token, degSuffix) {
		v, err := strconv.ParseFloat(strings.TrimSuffix(token, degSuffix), 64)
		if err != nil {
			return 0, err
		}
		return v * math.Pi / 180.0, nil
	}
	return strconv.ParseFloat(token, 64)
}

// Parse exactly count float arguments following the directive token.
func parseFloats(lineTokens []string, count int) ([]float64, error) {
	if len(lineTokens)-1 != count {
		return nil, argCountError(lineTokens[0], count, len(lineTokens)-1)
	}

	out := make([]float64, count)
	for tokIdx := 1; tokIdx <= count; tokIdx++ {
		v, err := strconv.ParseFloat(lineTokens[tokIdx], 64)
		if err != nil {
			return nil, err
		}
		out[tokIdx-1] = v
	}
	return out, nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	args, err := parseFloats(lineTokens, 3)
	if err != nil {
		return types.Vec3{}, err
	}
	return types.XYZ(args[0], args[1], args[2]), nil
}
