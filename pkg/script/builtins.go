package script

import (
	"fmt"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/meshvet/meshvet/pkg/procgen"
)

// toFloat64 coerces a numeric Sexp into a float64.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T", s)
}

// toSolid unwraps a sexpSolid argument.
func toSolid(s zygo.Sexp) (*sexpSolid, error) {
	solid, ok := s.(*sexpSolid)
	if !ok {
		return nil, fmt.Errorf("expected solid, got %T", s)
	}
	return solid, nil
}

// floatArgs coerces exactly n numeric arguments.
func floatArgs(name string, args []zygo.Sexp, n int) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s: expected %d arguments, got %d", name, n, len(args))
	}
	out := make([]float64, n)
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// solidPairArgs coerces exactly two solid arguments.
func solidPairArgs(name string, args []zygo.Sexp) (*sexpSolid, *sexpSolid, error) {
	if len(args) != 2 {
		return nil, nil, fmt.Errorf("%s: expected 2 solids, got %d arguments", name, len(args))
	}
	a, err := toSolid(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	b, err := toSolid(args[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	return a, b, nil
}

// registerBuiltins installs the solid-description builtins into a
// zygomys environment. Builtins construct sdfx solids; composition and
// transforms operate on previously built solids.
func registerBuiltins(env *zygo.Zlisp) {

	// (box x y z): axis-aligned box centered at the origin.
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		dims, err := floatArgs("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := procgen.Box(dims[0], dims[1], dims[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s, desc: fmt.Sprintf("box %g %g %g", dims[0], dims[1], dims[2])}, nil
	})

	// (cylinder height radius): Z-axis cylinder centered at the origin.
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		dims, err := floatArgs("cylinder", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := procgen.Cylinder(dims[0], dims[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s, desc: fmt.Sprintf("cylinder %g %g", dims[0], dims[1])}, nil
	})

	// (sphere radius)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		dims, err := floatArgs("sphere", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := procgen.Sphere(dims[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: s, desc: fmt.Sprintf("sphere %g", dims[0])}, nil
	})

	// (union a b), (difference a b), (intersection a b)
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := solidPairArgs("union", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: procgen.Union(a.s, b.s), desc: "union"}, nil
	})

	env.AddFunction("difference", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := solidPairArgs("difference", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: procgen.Difference(a.s, b.s), desc: "difference"}, nil
	})

	env.AddFunction("intersection", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		a, b, err := solidPairArgs("intersection", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: procgen.Intersection(a.s, b.s), desc: "intersection"}, nil
	})

	// (translate solid x y z)
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, off, err := solidAndFloats("translate", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: procgen.Translate(s.s, off[0], off[1], off[2]), desc: "translate"}, nil
	})

	// (rotate solid xdeg ydeg zdeg)
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, deg, err := solidAndFloats("rotate", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: procgen.Rotate(s.s, deg[0], deg[1], deg[2]), desc: "rotate"}, nil
	})

	// (scale solid factor)
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		s, f, err := solidAndFloats("scale", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{s: procgen.Scale(s.s, f[0]), desc: "scale"}, nil
	})
}

// solidAndFloats coerces a leading solid argument followed by exactly
// n numeric arguments.
func solidAndFloats(name string, args []zygo.Sexp, n int) (*sexpSolid, []float64, error) {
	if len(args) != n+1 {
		return nil, nil, fmt.Errorf("%s: expected solid plus %d numbers, got %d arguments", name, n, len(args))
	}
	s, err := toSolid(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}
	fs, err := floatArgs(name, args[1:], n)
	if err != nil {
		return nil, nil, err
	}
	return s, fs, nil
}
