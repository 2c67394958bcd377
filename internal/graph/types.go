package graph

// NodeType identifies the kind of pipeline stage a node represents. The type
// decides the node's ports, its internal pane layout and its size limits.
type NodeType string

const (
	TypeTextInput              NodeType = "text_input"
	TypeImageInput             NodeType = "image_input"
	TypeImageEditor            NodeType = "image_editor"
	TypeImageAnalyzer          NodeType = "image_analyzer"
	TypeImageSequenceGenerator NodeType = "image_sequence_generator"
	TypePromptProcessor        NodeType = "prompt_processor"
	TypePromptAnalyzer         NodeType = "prompt_analyzer"
	TypeCharacterGenerator     NodeType = "character_generator"
	TypeCharacterCard          NodeType = "character_card"
	TypeScriptGenerator        NodeType = "script_generator"
	TypeScriptViewer           NodeType = "script_viewer"
	TypeRerouteDot             NodeType = "reroute_dot"
	TypeMediaViewer            NodeType = "media_viewer"
	TypePoseCreator            NodeType = "pose_creator"
	TypeVideoEditor            NodeType = "video_editor"
	TypeVideoGenerator         NodeType = "video_generator"
	TypeTextGenerator          NodeType = "text_generator"
	TypeTranslator             NodeType = "translator"
	TypeStoryboard             NodeType = "storyboard"
	TypeAudioInput             NodeType = "audio_input"
	TypeNote                   NodeType = "note"
	TypeColorPalette           NodeType = "color_palette"
	TypeUpscaler               NodeType = "upscaler"
	TypeBackgroundRemover      NodeType = "background_remover"
	TypeStyleTransfer          NodeType = "style_transfer"
)

// TypeInfo is the static per-type metadata consulted by the store, the
// anchor resolver and the docking machine.
type TypeInfo struct {
	Label           string
	MinWidth        float64
	MinHeight       float64
	DefaultWidth    float64
	DefaultHeight   float64
	CollapsedHeight float64
	// EmptyValue is the payload a freshly created node starts with.
	EmptyValue string
	// Dockable is false for nodes that can never leave the canvas.
	Dockable bool
	// DockRestricted nodes accept only edge and corner docks and never cycle.
	DockRestricted bool
}

var defaultTypeInfo = TypeInfo{
	Label:           "Node",
	MinWidth:        200,
	MinHeight:       120,
	DefaultWidth:    320,
	DefaultHeight:   240,
	CollapsedHeight: 48,
	Dockable:        true,
}

var typeInfos = map[NodeType]TypeInfo{
	TypeTextInput:              {Label: "Text Input", MinWidth: 300, MinHeight: 200, DefaultWidth: 460, DefaultHeight: 300, CollapsedHeight: 48, Dockable: true},
	TypeImageInput:             {Label: "Image Input", MinWidth: 280, MinHeight: 260, DefaultWidth: 360, DefaultHeight: 400, CollapsedHeight: 48, Dockable: true},
	TypeImageEditor:            {Label: "Image Editor", MinWidth: 420, MinHeight: 520, DefaultWidth: 520, DefaultHeight: 720, CollapsedHeight: 80, EmptyValue: `{"topPaneHeight":330}`, Dockable: true},
	TypeImageAnalyzer:          {Label: "Image Analyzer", MinWidth: 300, MinHeight: 300, DefaultWidth: 360, DefaultHeight: 420, CollapsedHeight: 48, Dockable: true},
	TypeImageSequenceGenerator: {Label: "Image Sequence", MinWidth: 420, MinHeight: 480, DefaultWidth: 520, DefaultHeight: 760, CollapsedHeight: 80, EmptyValue: `{"conceptsMode":"normal"}`, Dockable: true},
	TypePromptProcessor:        {Label: "Prompt Processor", MinWidth: 320, MinHeight: 220, DefaultWidth: 420, DefaultHeight: 320, CollapsedHeight: 48, Dockable: true},
	TypePromptAnalyzer:         {Label: "Prompt Analyzer", MinWidth: 320, MinHeight: 260, DefaultWidth: 420, DefaultHeight: 420, CollapsedHeight: 60, EmptyValue: `{"characters":[]}`, Dockable: true},
	TypeCharacterGenerator:     {Label: "Character Generator", MinWidth: 340, MinHeight: 300, DefaultWidth: 440, DefaultHeight: 480, CollapsedHeight: 48, Dockable: true},
	TypeCharacterCard:          {Label: "Character Card", MinWidth: 300, MinHeight: 380, DefaultWidth: 360, DefaultHeight: 520, CollapsedHeight: 60, EmptyValue: `{}`, Dockable: true},
	TypeScriptGenerator:        {Label: "Script Generator", MinWidth: 340, MinHeight: 280, DefaultWidth: 460, DefaultHeight: 420, CollapsedHeight: 48, Dockable: true},
	TypeScriptViewer:           {Label: "Script Viewer", MinWidth: 360, MinHeight: 300, DefaultWidth: 520, DefaultHeight: 600, CollapsedHeight: 48, Dockable: true, DockRestricted: true},
	TypeRerouteDot:             {Label: "Reroute", DefaultWidth: 60, DefaultHeight: 40, CollapsedHeight: 40, EmptyValue: `{"direction":"LR"}`},
	TypeMediaViewer:            {Label: "Media Viewer", MinWidth: 320, MinHeight: 240, DefaultWidth: 480, DefaultHeight: 360, CollapsedHeight: 48, Dockable: true, DockRestricted: true},
	TypePoseCreator:            {Label: "Pose Creator", MinWidth: 360, MinHeight: 360, DefaultWidth: 480, DefaultHeight: 520, CollapsedHeight: 48, Dockable: true, DockRestricted: true},
	TypeVideoEditor:            {Label: "Video Editor", MinWidth: 480, MinHeight: 360, DefaultWidth: 640, DefaultHeight: 480, CollapsedHeight: 48, Dockable: true},
	TypeVideoGenerator:         {Label: "Video Generator", MinWidth: 340, MinHeight: 280, DefaultWidth: 440, DefaultHeight: 400, CollapsedHeight: 48, Dockable: true},
	TypeTextGenerator:          {Label: "Text Generator", MinWidth: 320, MinHeight: 240, DefaultWidth: 420, DefaultHeight: 360, CollapsedHeight: 48, Dockable: true},
	TypeTranslator:             {Label: "Translator", MinWidth: 300, MinHeight: 220, DefaultWidth: 400, DefaultHeight: 320, CollapsedHeight: 48, Dockable: true},
	TypeStoryboard:             {Label: "Storyboard", MinWidth: 480, MinHeight: 360, DefaultWidth: 720, DefaultHeight: 520, CollapsedHeight: 48, Dockable: true},
	TypeAudioInput:             {Label: "Audio Input", MinWidth: 280, MinHeight: 160, DefaultWidth: 360, DefaultHeight: 220, CollapsedHeight: 48, Dockable: true},
	TypeNote:                   {Label: "Note", MinWidth: 200, MinHeight: 120, DefaultWidth: 280, DefaultHeight: 200, CollapsedHeight: 40, Dockable: true},
	TypeColorPalette:           {Label: "Color Palette", MinWidth: 240, MinHeight: 160, DefaultWidth: 320, DefaultHeight: 240, CollapsedHeight: 48, Dockable: true},
	TypeUpscaler:               {Label: "Upscaler", MinWidth: 300, MinHeight: 240, DefaultWidth: 380, DefaultHeight: 320, CollapsedHeight: 48, Dockable: true},
	TypeBackgroundRemover:      {Label: "Background Remover", MinWidth: 300, MinHeight: 240, DefaultWidth: 380, DefaultHeight: 320, CollapsedHeight: 48, Dockable: true},
	TypeStyleTransfer:          {Label: "Style Transfer", MinWidth: 320, MinHeight: 260, DefaultWidth: 420, DefaultHeight: 360, CollapsedHeight: 48, Dockable: true},
}

// Info returns the metadata for t, falling back to a generic row for types
// this build does not know about.
func (t NodeType) Info() TypeInfo {
	if info, ok := typeInfos[t]; ok {
		return info
	}
	return defaultTypeInfo
}

// Known reports whether t is one of the enumerated node types.
func (t NodeType) Known() bool {
	_, ok := typeInfos[t]
	return ok
}

// Types returns every known node type in declaration order.
func Types() []NodeType {
	return []NodeType{
		TypeTextInput, TypeImageInput, TypeImageEditor, TypeImageAnalyzer,
		TypeImageSequenceGenerator, TypePromptProcessor, TypePromptAnalyzer,
		TypeCharacterGenerator, TypeCharacterCard, TypeScriptGenerator,
		TypeScriptViewer, TypeRerouteDot, TypeMediaViewer, TypePoseCreator,
		TypeVideoEditor, TypeVideoGenerator, TypeTextGenerator, TypeTranslator,
		TypeStoryboard, TypeAudioInput, TypeNote, TypeColorPalette,
		TypeUpscaler, TypeBackgroundRemover, TypeStyleTransfer,
	}
}
