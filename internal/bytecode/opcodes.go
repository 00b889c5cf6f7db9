package bytecode

// Opcode JVM 操作码
type Opcode byte

// JVM 操作码常量（完整集合，0x00-0xc9）
const (
	// 常量
	OpNop        Opcode = 0x00
	OpAconstNull Opcode = 0x01
	OpIconstM1   Opcode = 0x02
	OpIconst0    Opcode = 0x03
	OpIconst1    Opcode = 0x04
	OpIconst2    Opcode = 0x05
	OpIconst3    Opcode = 0x06
	OpIconst4    Opcode = 0x07
	OpIconst5    Opcode = 0x08
	OpLconst0    Opcode = 0x09
	OpLconst1    Opcode = 0x0a
	OpFconst0    Opcode = 0x0b
	OpFconst1    Opcode = 0x0c
	OpFconst2    Opcode = 0x0d
	OpDconst0    Opcode = 0x0e
	OpDconst1    Opcode = 0x0f
	OpBipush     Opcode = 0x10
	OpSipush     Opcode = 0x11
	OpLdc        Opcode = 0x12
	OpLdcW       Opcode = 0x13
	OpLdc2W      Opcode = 0x14

	// 加载局部变量与数组元素
	OpIload  Opcode = 0x15
	OpLload  Opcode = 0x16
	OpFload  Opcode = 0x17
	OpDload  Opcode = 0x18
	OpAload  Opcode = 0x19
	OpIload0 Opcode = 0x1a
	OpIload1 Opcode = 0x1b
	OpIload2 Opcode = 0x1c
	OpIload3 Opcode = 0x1d
	OpLload0 Opcode = 0x1e
	OpLload1 Opcode = 0x1f
	OpLload2 Opcode = 0x20
	OpLload3 Opcode = 0x21
	OpFload0 Opcode = 0x22
	OpFload1 Opcode = 0x23
	OpFload2 Opcode = 0x24
	OpFload3 Opcode = 0x25
	OpDload0 Opcode = 0x26
	OpDload1 Opcode = 0x27
	OpDload2 Opcode = 0x28
	OpDload3 Opcode = 0x29
	OpAload0 Opcode = 0x2a
	OpAload1 Opcode = 0x2b
	OpAload2 Opcode = 0x2c
	OpAload3 Opcode = 0x2d
	OpIaload Opcode = 0x2e
	OpLaload Opcode = 0x2f
	OpFaload Opcode = 0x30
	OpDaload Opcode = 0x31
	OpAaload Opcode = 0x32
	OpBaload Opcode = 0x33
	OpCaload Opcode = 0x34
	OpSaload Opcode = 0x35

	// 存储局部变量与数组元素
	OpIstore  Opcode = 0x36
	OpLstore  Opcode = 0x37
	OpFstore  Opcode = 0x38
	OpDstore  Opcode = 0x39
	OpAstore  Opcode = 0x3a
	OpIstore0 Opcode = 0x3b
	OpIstore1 Opcode = 0x3c
	OpIstore2 Opcode = 0x3d
	OpIstore3 Opcode = 0x3e
	OpLstore0 Opcode = 0x3f
	OpLstore1 Opcode = 0x40
	OpLstore2 Opcode = 0x41
	OpLstore3 Opcode = 0x42
	OpFstore0 Opcode = 0x43
	OpFstore1 Opcode = 0x44
	OpFstore2 Opcode = 0x45
	OpFstore3 Opcode = 0x46
	OpDstore0 Opcode = 0x47
	OpDstore1 Opcode = 0x48
	OpDstore2 Opcode = 0x49
	OpDstore3 Opcode = 0x4a
	OpAstore0 Opcode = 0x4b
	OpAstore1 Opcode = 0x4c
	OpAstore2 Opcode = 0x4d
	OpAstore3 Opcode = 0x4e
	OpIastore Opcode = 0x4f
	OpLastore Opcode = 0x50
	OpFastore Opcode = 0x51
	OpDastore Opcode = 0x52
	OpAastore Opcode = 0x53
	OpBastore Opcode = 0x54
	OpCastore Opcode = 0x55
	OpSastore Opcode = 0x56

	// 栈操作
	OpPop    Opcode = 0x57
	OpPop2   Opcode = 0x58
	OpDup    Opcode = 0x59
	OpDupX1  Opcode = 0x5a
	OpDupX2  Opcode = 0x5b
	OpDup2   Opcode = 0x5c
	OpDup2X1 Opcode = 0x5d
	OpDup2X2 Opcode = 0x5e
	OpSwap   Opcode = 0x5f

	// 算术与位运算
	OpIadd  Opcode = 0x60
	OpLadd  Opcode = 0x61
	OpFadd  Opcode = 0x62
	OpDadd  Opcode = 0x63
	OpIsub  Opcode = 0x64
	OpLsub  Opcode = 0x65
	OpFsub  Opcode = 0x66
	OpDsub  Opcode = 0x67
	OpImul  Opcode = 0x68
	OpLmul  Opcode = 0x69
	OpFmul  Opcode = 0x6a
	OpDmul  Opcode = 0x6b
	OpIdiv  Opcode = 0x6c
	OpLdiv  Opcode = 0x6d
	OpFdiv  Opcode = 0x6e
	OpDdiv  Opcode = 0x6f
	OpIrem  Opcode = 0x70
	OpLrem  Opcode = 0x71
	OpFrem  Opcode = 0x72
	OpDrem  Opcode = 0x73
	OpIneg  Opcode = 0x74
	OpLneg  Opcode = 0x75
	OpFneg  Opcode = 0x76
	OpDneg  Opcode = 0x77
	OpIshl  Opcode = 0x78
	OpLshl  Opcode = 0x79
	OpIshr  Opcode = 0x7a
	OpLshr  Opcode = 0x7b
	OpIushr Opcode = 0x7c
	OpLushr Opcode = 0x7d
	OpIand  Opcode = 0x7e
	OpLand  Opcode = 0x7f
	OpIor   Opcode = 0x80
	OpLor   Opcode = 0x81
	OpIxor  Opcode = 0x82
	OpLxor  Opcode = 0x83
	OpIinc  Opcode = 0x84

	// 类型转换与比较
	OpI2l   Opcode = 0x85
	OpI2f   Opcode = 0x86
	OpI2d   Opcode = 0x87
	OpL2i   Opcode = 0x88
	OpL2f   Opcode = 0x89
	OpL2d   Opcode = 0x8a
	OpF2i   Opcode = 0x8b
	OpF2l   Opcode = 0x8c
	OpF2d   Opcode = 0x8d
	OpD2i   Opcode = 0x8e
	OpD2l   Opcode = 0x8f
	OpD2f   Opcode = 0x90
	OpI2b   Opcode = 0x91
	OpI2c   Opcode = 0x92
	OpI2s   Opcode = 0x93
	OpLcmp  Opcode = 0x94
	OpFcmpl Opcode = 0x95
	OpFcmpg Opcode = 0x96
	OpDcmpl Opcode = 0x97
	OpDcmpg Opcode = 0x98

	// 跳转
	OpIfeq         Opcode = 0x99
	OpIfne         Opcode = 0x9a
	OpIflt         Opcode = 0x9b
	OpIfge         Opcode = 0x9c
	OpIfgt         Opcode = 0x9d
	OpIfle         Opcode = 0x9e
	OpIfIcmpeq     Opcode = 0x9f
	OpIfIcmpne     Opcode = 0xa0
	OpIfIcmplt     Opcode = 0xa1
	OpIfIcmpge     Opcode = 0xa2
	OpIfIcmpgt     Opcode = 0xa3
	OpIfIcmple     Opcode = 0xa4
	OpIfAcmpeq     Opcode = 0xa5
	OpIfAcmpne     Opcode = 0xa6
	OpGoto         Opcode = 0xa7
	OpJsr          Opcode = 0xa8
	OpRet          Opcode = 0xa9
	OpTableswitch  Opcode = 0xaa
	OpLookupswitch Opcode = 0xab

	// 返回
	OpIreturn Opcode = 0xac
	OpLreturn Opcode = 0xad
	OpFreturn Opcode = 0xae
	OpDreturn Opcode = 0xaf
	OpAreturn Opcode = 0xb0
	OpReturn  Opcode = 0xb1

	// 字段访问与方法调用
	OpGetstatic       Opcode = 0xb2
	OpPutstatic       Opcode = 0xb3
	OpGetfield        Opcode = 0xb4
	OpPutfield        Opcode = 0xb5
	OpInvokevirtual   Opcode = 0xb6
	OpInvokespecial   Opcode = 0xb7
	OpInvokestatic    Opcode = 0xb8
	OpInvokeinterface Opcode = 0xb9
	OpInvokedynamic   Opcode = 0xba

	// 对象与数组
	OpNew          Opcode = 0xbb
	OpNewarray     Opcode = 0xbc
	OpAnewarray    Opcode = 0xbd
	OpArraylength  Opcode = 0xbe
	OpAthrow       Opcode = 0xbf
	OpCheckcast    Opcode = 0xc0
	OpInstanceof   Opcode = 0xc1
	OpMonitorenter Opcode = 0xc2
	OpMonitorexit  Opcode = 0xc3

	// 扩展
	OpWide           Opcode = 0xc4
	OpMultianewarray Opcode = 0xc5
	OpIfnull         Opcode = 0xc6
	OpIfnonnull      Opcode = 0xc7
	OpGotoW          Opcode = 0xc8
	OpJsrW           Opcode = 0xc9
)

// opcodeInfos 操作码表：助记符、操作数格式、固定的栈效果（以槽计，long/double 占 2）
//
// Pop/Push 为 -1 表示栈效果取决于操作数（字段/方法描述符、维数）。
var opcodeInfos = []Info{
	{OpNop, "nop", FormatNone, 0, 0},
	{OpAconstNull, "aconst_null", FormatNone, 0, 1},
	{OpIconstM1, "iconst_m1", FormatNone, 0, 1},
	{OpIconst0, "iconst_0", FormatNone, 0, 1},
	{OpIconst1, "iconst_1", FormatNone, 0, 1},
	{OpIconst2, "iconst_2", FormatNone, 0, 1},
	{OpIconst3, "iconst_3", FormatNone, 0, 1},
	{OpIconst4, "iconst_4", FormatNone, 0, 1},
	{OpIconst5, "iconst_5", FormatNone, 0, 1},
	{OpLconst0, "lconst_0", FormatNone, 0, 2},
	{OpLconst1, "lconst_1", FormatNone, 0, 2},
	{OpFconst0, "fconst_0", FormatNone, 0, 1},
	{OpFconst1, "fconst_1", FormatNone, 0, 1},
	{OpFconst2, "fconst_2", FormatNone, 0, 1},
	{OpDconst0, "dconst_0", FormatNone, 0, 2},
	{OpDconst1, "dconst_1", FormatNone, 0, 2},
	{OpBipush, "bipush", FormatByte, 0, 1},
	{OpSipush, "sipush", FormatShort, 0, 1},
	{OpLdc, "ldc", FormatLdc, 0, 1},
	{OpLdcW, "ldc_w", FormatLdcW, 0, 1},
	{OpLdc2W, "ldc2_w", FormatLdc2W, 0, 2},
	{OpIload, "iload", FormatLocal, 0, 1},
	{OpLload, "lload", FormatLocal, 0, 2},
	{OpFload, "fload", FormatLocal, 0, 1},
	{OpDload, "dload", FormatLocal, 0, 2},
	{OpAload, "aload", FormatLocal, 0, 1},
	{OpIload0, "iload_0", FormatNone, 0, 1},
	{OpIload1, "iload_1", FormatNone, 0, 1},
	{OpIload2, "iload_2", FormatNone, 0, 1},
	{OpIload3, "iload_3", FormatNone, 0, 1},
	{OpLload0, "lload_0", FormatNone, 0, 2},
	{OpLload1, "lload_1", FormatNone, 0, 2},
	{OpLload2, "lload_2", FormatNone, 0, 2},
	{OpLload3, "lload_3", FormatNone, 0, 2},
	{OpFload0, "fload_0", FormatNone, 0, 1},
	{OpFload1, "fload_1", FormatNone, 0, 1},
	{OpFload2, "fload_2", FormatNone, 0, 1},
	{OpFload3, "fload_3", FormatNone, 0, 1},
	{OpDload0, "dload_0", FormatNone, 0, 2},
	{OpDload1, "dload_1", FormatNone, 0, 2},
	{OpDload2, "dload_2", FormatNone, 0, 2},
	{OpDload3, "dload_3", FormatNone, 0, 2},
	{OpAload0, "aload_0", FormatNone, 0, 1},
	{OpAload1, "aload_1", FormatNone, 0, 1},
	{OpAload2, "aload_2", FormatNone, 0, 1},
	{OpAload3, "aload_3", FormatNone, 0, 1},
	{OpIaload, "iaload", FormatNone, 2, 1},
	{OpLaload, "laload", FormatNone, 2, 2},
	{OpFaload, "faload", FormatNone, 2, 1},
	{OpDaload, "daload", FormatNone, 2, 2},
	{OpAaload, "aaload", FormatNone, 2, 1},
	{OpBaload, "baload", FormatNone, 2, 1},
	{OpCaload, "caload", FormatNone, 2, 1},
	{OpSaload, "saload", FormatNone, 2, 1},
	{OpIstore, "istore", FormatLocal, 1, 0},
	{OpLstore, "lstore", FormatLocal, 2, 0},
	{OpFstore, "fstore", FormatLocal, 1, 0},
	{OpDstore, "dstore", FormatLocal, 2, 0},
	{OpAstore, "astore", FormatLocal, 1, 0},
	{OpIstore0, "istore_0", FormatNone, 1, 0},
	{OpIstore1, "istore_1", FormatNone, 1, 0},
	{OpIstore2, "istore_2", FormatNone, 1, 0},
	{OpIstore3, "istore_3", FormatNone, 1, 0},
	{OpLstore0, "lstore_0", FormatNone, 2, 0},
	{OpLstore1, "lstore_1", FormatNone, 2, 0},
	{OpLstore2, "lstore_2", FormatNone, 2, 0},
	{OpLstore3, "lstore_3", FormatNone, 2, 0},
	{OpFstore0, "fstore_0", FormatNone, 1, 0},
	{OpFstore1, "fstore_1", FormatNone, 1, 0},
	{OpFstore2, "fstore_2", FormatNone, 1, 0},
	{OpFstore3, "fstore_3", FormatNone, 1, 0},
	{OpDstore0, "dstore_0", FormatNone, 2, 0},
	{OpDstore1, "dstore_1", FormatNone, 2, 0},
	{OpDstore2, "dstore_2", FormatNone, 2, 0},
	{OpDstore3, "dstore_3", FormatNone, 2, 0},
	{OpAstore0, "astore_0", FormatNone, 1, 0},
	{OpAstore1, "astore_1", FormatNone, 1, 0},
	{OpAstore2, "astore_2", FormatNone, 1, 0},
	{OpAstore3, "astore_3", FormatNone, 1, 0},
	{OpIastore, "iastore", FormatNone, 3, 0},
	{OpLastore, "lastore", FormatNone, 4, 0},
	{OpFastore, "fastore", FormatNone, 3, 0},
	{OpDastore, "dastore", FormatNone, 4, 0},
	{OpAastore, "aastore", FormatNone, 3, 0},
	{OpBastore, "bastore", FormatNone, 3, 0},
	{OpCastore, "castore", FormatNone, 3, 0},
	{OpSastore, "sastore", FormatNone, 3, 0},
	{OpPop, "pop", FormatNone, 1, 0},
	{OpPop2, "pop2", FormatNone, 2, 0},
	{OpDup, "dup", FormatNone, 1, 2},
	{OpDupX1, "dup_x1", FormatNone, 2, 3},
	{OpDupX2, "dup_x2", FormatNone, 3, 4},
	{OpDup2, "dup2", FormatNone, 2, 4},
	{OpDup2X1, "dup2_x1", FormatNone, 3, 5},
	{OpDup2X2, "dup2_x2", FormatNone, 4, 6},
	{OpSwap, "swap", FormatNone, 2, 2},
	{OpIadd, "iadd", FormatNone, 2, 1},
	{OpLadd, "ladd", FormatNone, 4, 2},
	{OpFadd, "fadd", FormatNone, 2, 1},
	{OpDadd, "dadd", FormatNone, 4, 2},
	{OpIsub, "isub", FormatNone, 2, 1},
	{OpLsub, "lsub", FormatNone, 4, 2},
	{OpFsub, "fsub", FormatNone, 2, 1},
	{OpDsub, "dsub", FormatNone, 4, 2},
	{OpImul, "imul", FormatNone, 2, 1},
	{OpLmul, "lmul", FormatNone, 4, 2},
	{OpFmul, "fmul", FormatNone, 2, 1},
	{OpDmul, "dmul", FormatNone, 4, 2},
	{OpIdiv, "idiv", FormatNone, 2, 1},
	{OpLdiv, "ldiv", FormatNone, 4, 2},
	{OpFdiv, "fdiv", FormatNone, 2, 1},
	{OpDdiv, "ddiv", FormatNone, 4, 2},
	{OpIrem, "irem", FormatNone, 2, 1},
	{OpLrem, "lrem", FormatNone, 4, 2},
	{OpFrem, "frem", FormatNone, 2, 1},
	{OpDrem, "drem", FormatNone, 4, 2},
	{OpIneg, "ineg", FormatNone, 1, 1},
	{OpLneg, "lneg", FormatNone, 2, 2},
	{OpFneg, "fneg", FormatNone, 1, 1},
	{OpDneg, "dneg", FormatNone, 2, 2},
	{OpIshl, "ishl", FormatNone, 2, 1},
	{OpLshl, "lshl", FormatNone, 3, 2},
	{OpIshr, "ishr", FormatNone, 2, 1},
	{OpLshr, "lshr", FormatNone, 3, 2},
	{OpIushr, "iushr", FormatNone, 2, 1},
	{OpLushr, "lushr", FormatNone, 3, 2},
	{OpIand, "iand", FormatNone, 2, 1},
	{OpLand, "land", FormatNone, 4, 2},
	{OpIor, "ior", FormatNone, 2, 1},
	{OpLor, "lor", FormatNone, 4, 2},
	{OpIxor, "ixor", FormatNone, 2, 1},
	{OpLxor, "lxor", FormatNone, 4, 2},
	{OpIinc, "iinc", FormatIinc, 0, 0},
	{OpI2l, "i2l", FormatNone, 1, 2},
	{OpI2f, "i2f", FormatNone, 1, 1},
	{OpI2d, "i2d", FormatNone, 1, 2},
	{OpL2i, "l2i", FormatNone, 2, 1},
	{OpL2f, "l2f", FormatNone, 2, 1},
	{OpL2d, "l2d", FormatNone, 2, 2},
	{OpF2i, "f2i", FormatNone, 1, 1},
	{OpF2l, "f2l", FormatNone, 1, 2},
	{OpF2d, "f2d", FormatNone, 1, 2},
	{OpD2i, "d2i", FormatNone, 2, 1},
	{OpD2l, "d2l", FormatNone, 2, 2},
	{OpD2f, "d2f", FormatNone, 2, 1},
	{OpI2b, "i2b", FormatNone, 1, 1},
	{OpI2c, "i2c", FormatNone, 1, 1},
	{OpI2s, "i2s", FormatNone, 1, 1},
	{OpLcmp, "lcmp", FormatNone, 4, 1},
	{OpFcmpl, "fcmpl", FormatNone, 2, 1},
	{OpFcmpg, "fcmpg", FormatNone, 2, 1},
	{OpDcmpl, "dcmpl", FormatNone, 4, 1},
	{OpDcmpg, "dcmpg", FormatNone, 4, 1},
	{OpIfeq, "ifeq", FormatBranch, 1, 0},
	{OpIfne, "ifne", FormatBranch, 1, 0},
	{OpIflt, "iflt", FormatBranch, 1, 0},
	{OpIfge, "ifge", FormatBranch, 1, 0},
	{OpIfgt, "ifgt", FormatBranch, 1, 0},
	{OpIfle, "ifle", FormatBranch, 1, 0},
	{OpIfIcmpeq, "if_icmpeq", FormatBranch, 2, 0},
	{OpIfIcmpne, "if_icmpne", FormatBranch, 2, 0},
	{OpIfIcmplt, "if_icmplt", FormatBranch, 2, 0},
	{OpIfIcmpge, "if_icmpge", FormatBranch, 2, 0},
	{OpIfIcmpgt, "if_icmpgt", FormatBranch, 2, 0},
	{OpIfIcmple, "if_icmple", FormatBranch, 2, 0},
	{OpIfAcmpeq, "if_acmpeq", FormatBranch, 2, 0},
	{OpIfAcmpne, "if_acmpne", FormatBranch, 2, 0},
	{OpGoto, "goto", FormatBranch, 0, 0},
	{OpJsr, "jsr", FormatBranch, 0, 1},
	{OpRet, "ret", FormatLocal, 0, 0},
	{OpTableswitch, "tableswitch", FormatTableswitch, 1, 0},
	{OpLookupswitch, "lookupswitch", FormatLookupswitch, 1, 0},
	{OpIreturn, "ireturn", FormatNone, 1, 0},
	{OpLreturn, "lreturn", FormatNone, 2, 0},
	{OpFreturn, "freturn", FormatNone, 1, 0},
	{OpDreturn, "dreturn", FormatNone, 2, 0},
	{OpAreturn, "areturn", FormatNone, 1, 0},
	{OpReturn, "return", FormatNone, 0, 0},
	{OpGetstatic, "getstatic", FormatField, -1, -1},
	{OpPutstatic, "putstatic", FormatField, -1, -1},
	{OpGetfield, "getfield", FormatField, -1, -1},
	{OpPutfield, "putfield", FormatField, -1, -1},
	{OpInvokevirtual, "invokevirtual", FormatMethod, -1, -1},
	{OpInvokespecial, "invokespecial", FormatMethod, -1, -1},
	{OpInvokestatic, "invokestatic", FormatMethod, -1, -1},
	{OpInvokeinterface, "invokeinterface", FormatInterface, -1, -1},
	{OpInvokedynamic, "invokedynamic", FormatDynamic, -1, -1},
	{OpNew, "new", FormatClass, 0, 1},
	{OpNewarray, "newarray", FormatNewarray, 1, 1},
	{OpAnewarray, "anewarray", FormatClass, 1, 1},
	{OpArraylength, "arraylength", FormatNone, 1, 1},
	{OpAthrow, "athrow", FormatNone, 1, 0},
	{OpCheckcast, "checkcast", FormatClass, 1, 1},
	{OpInstanceof, "instanceof", FormatClass, 1, 1},
	{OpMonitorenter, "monitorenter", FormatNone, 1, 0},
	{OpMonitorexit, "monitorexit", FormatNone, 1, 0},
	{OpWide, "wide", FormatWide, 0, 0},
	{OpMultianewarray, "multianewarray", FormatMultianewarray, -1, 1},
	{OpIfnull, "ifnull", FormatBranch, 1, 0},
	{OpIfnonnull, "ifnonnull", FormatBranch, 1, 0},
	{OpGotoW, "goto_w", FormatBranchWide, 0, 0},
	{OpJsrW, "jsr_w", FormatBranchWide, 0, 1},
}
