package lang

import "strings"

// Rule names for the AutoHotkey v2 dialect.
const (
	ClassDef      RuleName = "class_def"
	FunctionDef   RuleName = "function_def"
	GUICreate     RuleName = "gui_create"
	GUIAdd        RuleName = "gui_add"
	Hotkey        RuleName = "hotkey"
	Hotstring     RuleName = "hotstring"
	COMCreate     RuleName = "com_create"
	CLRUsage      RuleName = "clr_usage"
	WinRTUsage    RuleName = "winrt_usage"
	MapUsage      RuleName = "map_usage"
	ArrayUsage    RuleName = "array_usage"
	PropGet       RuleName = "prop_get"
	PropSet       RuleName = "prop_set"
	StaticMethod  RuleName = "static_method"
	Callback      RuleName = "callback"
	EventHandler  RuleName = "event_handler"
	BufferUsage   RuleName = "buffer_usage"
	DllCall       RuleName = "dllcall"
	RegexUsage    RuleName = "regex_usage"
	IncludeDirect RuleName = "include"
)

// CommentMarker starts a line comment.
const CommentMarker = ";"

// GUIControls lists the control types recognized after Gui.Add.
var GUIControls = []string{
	"Button", "Edit", "Text", "ListView", "TreeView", "Tab", "Picture",
	"CheckBox", "Radio", "DropDownList", "ComboBox", "ListBox", "GroupBox",
	"Progress", "Slider", "DateTime", "MonthCal", "Hotkey", "UpDown",
	"StatusBar", "Link",
}

// namedKeys are the key names a hotkey may be bound to besides single
// alphanumerics and function keys.
var namedKeys = []string{
	"Space", "Enter", "Tab", "Esc", "Backspace", "Delete", "Insert", "Home",
	"End", "PgUp", "PgDn", "Up", "Down", "Left", "Right", "NumpadEnter",
	"LButton", "RButton", "MButton", "WheelUp", "WheelDown",
}

// ident matches one identifier character. Names may use any Unicode letter.
const ident = `[\p{L}\p{N}_]`

// hotIfPrefix lets hotkeys and hotstrings sit directly under a #HotIf line.
const hotIfPrefix = `^(?:\s*|\s*#HotIf\s+.*\n\s*)`

func init() {
	register(ClassDef, "class definition", `(?m)^\s*class\s+(`+ident+`+)`)
	register(FunctionDef, "function or method definition", `(?m)^\s*(`+ident+`+)\s*\([^)]*\)\s*\{`)
	register(GUICreate, "GUI window construction", `(?i)Gui\s*\(`)
	register(GUIAdd, "GUI control addition", `(?i)\.Add(`+strings.Join(GUIControls, "|")+`)`)
	register(Hotkey, "hotkey binding",
		`(?m)`+hotIfPrefix+`([~*!^+#<>$]*(?:[a-zA-Z0-9]|F\d+|`+strings.Join(namedKeys, "|")+`))::`)
	register(Hotstring, "hotstring binding", `(?m)`+hotIfPrefix+`:(?:[*?BCKOR0-9]*):([^:]+)::`)
	register(COMCreate, "native interop object creation", `(?i)ComObject\s*\(|ComObjActive\s*\(|ComObjGet\s*\(`)
	register(CLRUsage, "managed runtime usage", `(?i)CLR_`+ident+`+|\.NET|System\.`)
	register(WinRTUsage, "modern platform API usage", `(?i)WinRT|Windows\.Runtime|Windows\.Foundation`)
	register(MapUsage, "map constructor", `(?i)Map\s*\(`)
	register(ArrayUsage, "array constructor or literal", `(?i)Array\s*\(|\[.*\]`)
	register(PropGet, "indexed property getter", `(?m)^\s*(`+ident+`+)\s*\[\s*\]\s*\{`)
	register(PropSet, "indexed property setter", `(?m)^\s*(`+ident+`+)\s*\[\s*\]\s*\{`)
	register(StaticMethod, "static method declaration", `(?m)^\s*static\s+(`+ident+`+)\s*\(`)
	register(Callback, "callback registration", `(?i)ObjBindMethod\s*\(|CallbackCreate\s*\(|Func\s*\(`)
	register(EventHandler, "event handler registration", `(?i)\.OnEvent\s*\(|OnMessage\s*\(|OnExit\s*\(`)
	register(BufferUsage, "raw memory buffer usage", `(?i)Buffer\s*\(|NumPut\s*\(|NumGet\s*\(|StrPut\s*\(|StrGet\s*\(`)
	register(DllCall, "foreign function call", `(?i)DllCall\s*\(`)
	register(RegexUsage, "regular expression call", `(?i)RegEx(?:Match|Replace)\s*\(`)
	register(IncludeDirect, "include directive", `(?i)#Include\s+([^\r\n]+)`)
}
