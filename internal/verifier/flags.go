package verifier

import (
	"math/bits"

	"github.com/tangzhangming/jasm/internal/ast"
	jerrors "github.com/tangzhangming/jasm/internal/errors"
	"github.com/tangzhangming/jasm/internal/i18n"
)

// ============================================================================
// 访问标志组合
// ============================================================================

const visibility = ast.AccPublic | ast.AccPrivate | ast.AccProtected

// defaultMethodsVersion 起接口可以有非抽象方法
const defaultMethodsVersion = 52

func badFlags(flags uint16, reason string) *jerrors.CompileError {
	return jerrors.New(jerrors.E0403, i18n.T(i18n.ErrBadAccessFlags, flags, reason))
}

func (c *checker) isInterface() bool {
	return c.cf.AccessFlags&ast.AccInterface != 0
}

func (c *checker) checkClassFlags() error {
	flags := c.cf.AccessFlags
	if c.isInterface() {
		switch {
		case flags&ast.AccAbstract == 0:
			return badFlags(flags, "an interface must be abstract")
		case flags&(ast.AccFinal|ast.AccSuper|ast.AccEnum) != 0:
			return badFlags(flags, "an interface cannot be final, super or enum")
		}
		return nil
	}
	switch {
	case flags&ast.AccAnnotation != 0:
		return badFlags(flags, "an annotation type must be an interface")
	case flags&ast.AccFinal != 0 && flags&ast.AccAbstract != 0:
		return badFlags(flags, "a class cannot be both final and abstract")
	}
	return nil
}

func (c *checker) checkFieldFlags(flags uint16, key string) error {
	if bits.OnesCount16(flags&visibility) > 1 {
		return badFlags(flags, "field "+key+" has more than one visibility")
	}
	if flags&ast.AccFinal != 0 && flags&ast.AccVolatile != 0 {
		return badFlags(flags, "field "+key+" cannot be both final and volatile")
	}
	if c.isInterface() {
		const want = ast.AccPublic | ast.AccStatic | ast.AccFinal
		if flags&want != want {
			return badFlags(flags, "interface field "+key+" must be public static final")
		}
	}
	return nil
}

func (c *checker) checkMethodFlags(flags uint16, name, sig string) error {
	if name == "<clinit>" {
		return nil
	}
	if bits.OnesCount16(flags&visibility) > 1 {
		return badFlags(flags, "method has more than one visibility").InMethod(sig)
	}
	const notWithAbstract = ast.AccPrivate | ast.AccStatic | ast.AccFinal |
		ast.AccSynchronized | ast.AccNative | ast.AccStrict
	if flags&ast.AccAbstract != 0 && flags&notWithAbstract != 0 {
		return badFlags(flags, "abstract method has an incompatible modifier").InMethod(sig)
	}
	if name == "<init>" {
		const notOnInit = ast.AccStatic | ast.AccFinal | ast.AccSynchronized | ast.AccNative | ast.AccAbstract
		if flags&notOnInit != 0 {
			return badFlags(flags, "constructor has an incompatible modifier").InMethod(sig)
		}
		if c.isInterface() {
			return badFlags(flags, "an interface cannot declare a constructor").InMethod(sig)
		}
	}
	if c.isInterface() && c.cf.MajorVersion < defaultMethodsVersion {
		const want = ast.AccPublic | ast.AccAbstract
		if flags&want != want {
			return badFlags(flags, "interface method must be public abstract").InMethod(sig)
		}
	}
	return nil
}
