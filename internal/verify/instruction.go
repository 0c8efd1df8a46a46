package verify

import (
	"github.com/Ololoshechkin/plugin-verifier/internal/classfile"
	"github.com/Ololoshechkin/plugin-verifier/internal/fieldres"
	"github.com/Ololoshechkin/plugin-verifier/internal/methodres"
	"github.com/Ololoshechkin/plugin-verifier/internal/problem"
	"github.com/Ololoshechkin/plugin-verifier/internal/symref"
)

// verifyInstruction dispatches one instruction to the appropriate
// checker. Control-flow instructions never reach here — decodeCode
// doesn't represent them.
func (c *Context) verifyInstruction(class *classfile.ClassNode, method *classfile.MethodNode, insn classfile.Instruction) {
	loc := symref.InInstruction(class.Name, method.Name, method.Desc, insn.Index, insn.Opcode.String())

	switch {
	case insn.IsMethodInvoke():
		c.verifyInvoke(class, method, insn, loc)
	case insn.IsFieldAccess():
		c.verifyFieldAccess(class, method, insn, loc)
	case insn.Opcode == classfile.OpNew:
		c.verifyNew(loc, insn.TypeName)
	case insn.Opcode == classfile.OpCheckCast || insn.Opcode == classfile.OpInstanceOf:
		c.verifyTypeReference(loc, insn.TypeName)
	case insn.Opcode == classfile.OpANewArray || insn.Opcode == classfile.OpMultiANewArray:
		c.verifyTypeReference(loc, insn.TypeName)
	case insn.Opcode == classfile.OpLdc:
		c.verifyTypeReference(loc, insn.TypeName)
	}
}

func (c *Context) verifyInvoke(class *classfile.ClassNode, method *classfile.MethodNode, insn classfile.Instruction, loc symref.Location) {
	owner, ok := c.resolveClass(loc, insn.Owner)
	if !ok {
		return
	}

	var lk methodres.Lookup
	if insn.IsItf {
		lk = c.methodRes.ResolveInterfaceMethod(owner, insn.Name, insn.Desc)
	} else {
		lk = c.methodRes.ResolveClassMethod(owner, insn.Name, insn.Desc)
	}

	switch lk.Kind {
	case methodres.LookupFailed:
		return
	case methodres.LookupNotFound:
		c.Sink.Report(problem.Problem{
			Kind: problem.MethodNotFound,
			At:   loc,
			Ref:  symref.Method(insn.Owner, insn.Name, insn.Desc),
		})
		return
	}

	resolvedRef := symref.Method(lk.Declaring.Name, insn.Name, insn.Desc)

	if !c.isAccessible(lk.Declaring, lk.Method.Access, class, insn.Owner) {
		c.Sink.Report(problem.Problem{
			Kind:   problem.IllegalMethodAccess,
			At:     loc,
			Ref:    resolvedRef,
			Access: accessLevelOf(lk.Method.Access),
		})
		return
	}

	switch insn.Opcode {
	case classfile.OpInvokeVirtual:
		if lk.Method.IsStatic() {
			c.Sink.Report(problem.Problem{Kind: problem.InvokeVirtualOnStaticMethod, At: loc, Ref: resolvedRef})
			return
		}
	case classfile.OpInvokeSpecial:
		if lk.Method.IsStatic() {
			c.Sink.Report(problem.Problem{Kind: problem.InvokeSpecialOnStaticMethod, At: loc, Ref: resolvedRef})
			return
		}
		if lk.Method.IsAbstract() && !lk.SignaturePolymorphic {
			c.Sink.Report(problem.Problem{Kind: problem.AbstractMethodInvocation, At: loc, Ref: resolvedRef})
		}
	case classfile.OpInvokeStatic:
		if !lk.Method.IsStatic() {
			c.Sink.Report(problem.Problem{Kind: problem.InvokeStaticOnInstanceMethod, At: loc, Ref: resolvedRef})
			return
		}
	case classfile.OpInvokeInterface:
		if lk.Method.IsPrivate() {
			c.Sink.Report(problem.Problem{Kind: problem.InvokeInterfaceOnPrivateMethod, At: loc, Ref: resolvedRef})
			return
		}
		if lk.Method.IsStatic() {
			c.Sink.Report(problem.Problem{Kind: problem.InvokeInterfaceOnStaticMethod, At: loc, Ref: resolvedRef})
			return
		}
	}

	c.recordUsageIfNeeded(loc, resolvedRef, lk.Declaring, lk.Method.Deprecated)
}

func (c *Context) verifyFieldAccess(class *classfile.ClassNode, method *classfile.MethodNode, insn classfile.Instruction, loc symref.Location) {
	owner, ok := c.resolveClass(loc, insn.Owner)
	if !ok {
		return
	}

	lk := c.fieldRes.ResolveField(owner, insn.Name, insn.Desc)
	switch lk.Kind {
	case fieldres.LookupFailed:
		return
	case fieldres.LookupNotFound:
		c.Sink.Report(problem.Problem{
			Kind: problem.FieldNotFound,
			At:   loc,
			Ref:  symref.Field(insn.Owner, insn.Name, insn.Desc),
		})
		return
	}

	resolvedRef := symref.Field(lk.Declaring.Name, insn.Name, insn.Desc)

	if !c.isAccessible(lk.Declaring, lk.Field.Access, class, insn.Owner) {
		c.Sink.Report(problem.Problem{
			Kind:   problem.IllegalFieldAccess,
			At:     loc,
			Ref:    resolvedRef,
			Access: accessLevelOf(lk.Field.Access),
		})
		return
	}

	if insn.IsStaticFieldAccess() && !lk.Field.IsStatic() {
		c.Sink.Report(problem.Problem{Kind: problem.StaticAccessOfInstanceField, At: loc, Ref: resolvedRef})
		return
	}
	if !insn.IsStaticFieldAccess() && lk.Field.IsStatic() {
		c.Sink.Report(problem.Problem{Kind: problem.InstanceAccessOfStaticField, At: loc, Ref: resolvedRef})
		return
	}

	if insn.IsWrite() && lk.Field.IsFinal() {
		writerIsDeclaringClassInit := class.Name == lk.Declaring.Name && (method.IsConstructor() || method.IsClassInit())
		if lk.Declaring.Name != class.Name || !writerIsDeclaringClassInit {
			c.Sink.Report(problem.Problem{Kind: problem.ChangeFinalField, At: loc, Ref: resolvedRef})
			return
		}
	}

	c.recordUsageIfNeeded(loc, resolvedRef, lk.Declaring, lk.Field.Deprecated)
}

func (c *Context) verifyNew(loc symref.Location, typeName string) {
	target, ok := c.resolveClass(loc, typeName)
	if !ok {
		return
	}
	if target.IsInterface() {
		c.Sink.Report(problem.Problem{Kind: problem.InterfaceInstantiation, At: loc, Ref: symref.Class(typeName)})
		return
	}
	if target.IsAbstract() {
		c.Sink.Report(problem.Problem{Kind: problem.AbstractClassInstantiation, At: loc, Ref: symref.Class(typeName)})
	}
}

// verifyTypeReference resolves a type name referenced by checkcast,
// instanceof, anewarray, multianewarray or ldc-of-class, reporting
// ClassNotFound/read-errors but no further structural checks (the JVM
// performs no load-time check beyond class presence for these opcodes).
func (c *Context) verifyTypeReference(loc symref.Location, typeName string) {
	if typeName == "" || classfile.IsPrimitive(typeName) {
		return
	}
	c.resolveClass(loc, typeName)
}
