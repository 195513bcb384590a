// Package builtins catalogs the engine-provided (external) Daedalus functions
// and the engine constants scripts commonly rely on.
package builtins

import (
	"sort"
	"strings"
)

// Parameter is one formal parameter of an external function.
type Parameter struct {
	Name string
	Type string
}

// Signature describes an external function.
type Signature struct {
	Name          string
	Parameters    []Parameter
	ReturnType    string
	Documentation string
}

// Label renders the signature the way it would be declared in a script.
func (s Signature) Label() string {
	params := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = "var " + p.Type + " " + p.Name
	}
	return "func " + s.ReturnType + " " + s.Name + "(" + strings.Join(params, ", ") + ")"
}

func sig(name, ret, doc string, params ...Parameter) Signature {
	return Signature{Name: name, Parameters: params, ReturnType: ret, Documentation: doc}
}

func p(typ, name string) Parameter {
	return Parameter{Name: name, Type: typ}
}

var signatures = []Signature{
	// Npc_
	sig("Npc_IsDead", "int", "Returns TRUE if the NPC is dead", p("C_NPC", "npc")),
	sig("Npc_IsPlayer", "int", "Returns TRUE if the NPC is the player character", p("C_NPC", "npc")),
	sig("Npc_GetDistToNpc", "int", "Returns the distance between two NPCs in centimeters", p("C_NPC", "npc1"), p("C_NPC", "npc2")),
	sig("Npc_HasItems", "int", "Returns how many items of the given instance the NPC carries", p("C_NPC", "npc"), p("int", "itemInstance")),
	sig("Npc_GetTalentSkill", "int", "Returns the NPC's skill level in a talent", p("C_NPC", "npc"), p("int", "talent")),
	sig("Npc_SetTalentSkill", "void", "Sets the NPC's skill level in a talent", p("C_NPC", "npc"), p("int", "talent"), p("int", "value")),
	sig("Npc_KnowsInfo", "int", "Returns TRUE if the dialog info has been told", p("C_NPC", "npc"), p("int", "infoInstance")),
	sig("Npc_ExchangeRoutine", "void", "Switches the NPC to another daily routine", p("C_NPC", "npc"), p("string", "routineName")),
	sig("Npc_GetTrueGuild", "int", "Returns the NPC's real guild", p("C_NPC", "npc")),
	sig("Npc_SetTrueGuild", "int", "Sets the NPC's real guild", p("C_NPC", "npc"), p("int", "guild")),
	sig("Npc_IsInState", "int", "Returns TRUE if the NPC currently runs the given state", p("C_NPC", "npc"), p("func", "state")),
	sig("Npc_GetStateTime", "int", "Returns the seconds spent in the current state", p("C_NPC", "npc")),

	// AI_
	sig("AI_Output", "void", "Plays a dialog line; the output name selects the subtitle and sound", p("C_NPC", "speaker"), p("C_NPC", "target"), p("string", "outputName")),
	sig("AI_StopProcessInfos", "void", "Ends the current dialog", p("C_NPC", "npc")),
	sig("AI_GotoWP", "void", "Makes the NPC walk to a waypoint", p("C_NPC", "npc"), p("string", "waypoint")),
	sig("AI_StartState", "void", "Starts an AI state on the NPC", p("C_NPC", "npc"), p("func", "state"), p("int", "behaviour"), p("string", "waypoint")),
	sig("AI_Wait", "void", "Queues a pause in the NPC's AI", p("C_NPC", "npc"), p("float", "seconds")),
	sig("AI_TurnToNpc", "void", "Turns the NPC towards another NPC", p("C_NPC", "npc"), p("C_NPC", "target")),
	sig("AI_UseItem", "void", "Makes the NPC use an item", p("C_NPC", "npc"), p("int", "itemInstance")),

	// Wld_
	sig("Wld_InsertNpc", "void", "Spawns an NPC instance at a waypoint", p("int", "npcInstance"), p("string", "spawnPoint")),
	sig("Wld_InsertItem", "void", "Spawns an item instance at a waypoint or freepoint", p("int", "itemInstance"), p("string", "spawnPoint")),
	sig("Wld_GetDay", "int", "Returns the current day, starting at 0"),
	sig("Wld_IsTime", "int", "Returns TRUE if the world time lies in the given interval", p("int", "hour1"), p("int", "min1"), p("int", "hour2"), p("int", "min2")),
	sig("Wld_SetTime", "void", "Sets the world time", p("int", "hour"), p("int", "min")),

	// Mdl_
	sig("Mdl_SetVisual", "void", "Sets the model visual of an NPC", p("C_NPC", "npc"), p("string", "visual")),
	sig("Mdl_ApplyOverlayMds", "void", "Applies an animation overlay to an NPC", p("C_NPC", "npc"), p("string", "overlay")),
	sig("Mdl_SetModelScale", "void", "Scales the NPC's model", p("C_NPC", "npc"), p("float", "x"), p("float", "y"), p("float", "z")),

	// Hlp_
	sig("Hlp_GetNpc", "C_NPC", "Returns the NPC for an instance", p("int", "instance")),
	sig("Hlp_IsValidNpc", "int", "Returns TRUE if the variable holds a valid NPC", p("C_NPC", "npc")),
	sig("Hlp_Random", "int", "Returns a random number in [0, max)", p("int", "max")),
	sig("Hlp_StrCmp", "int", "Returns TRUE if both strings are equal", p("string", "s1"), p("string", "s2")),
	sig("Hlp_GetInstanceID", "int", "Returns the instance id of an NPC", p("C_NPC", "npc")),

	// Info_
	sig("Info_AddChoice", "void", "Adds a choice to a dialog", p("int", "dialog"), p("string", "text"), p("func", "fn")),
	sig("Info_ClearChoices", "void", "Removes all choices from a dialog", p("int", "dialog")),

	// Log_
	sig("Log_CreateTopic", "void", "Creates a log topic in a section", p("string", "topic"), p("int", "section")),
	sig("Log_SetTopicStatus", "void", "Sets the status of a log topic", p("string", "topic"), p("int", "status")),
	sig("Log_AddEntry", "void", "Adds an entry to a log topic", p("string", "topic"), p("string", "entry")),

	// Doc_, Snd_, Mob_
	sig("Doc_Create", "int", "Creates a document and returns its handle"),
	sig("Doc_Show", "void", "Displays a document", p("int", "handle")),
	sig("Snd_Play", "void", "Plays a sound", p("string", "sound")),
	sig("Mob_HasItems", "int", "Returns how many items a container holds", p("string", "mobName"), p("int", "itemInstance")),

	// Print and conversions
	sig("Print", "void", "Prints a message on screen", p("string", "text")),
	sig("PrintScreen", "int", "Prints a message at a screen position", p("string", "msg"), p("int", "x"), p("int", "y"), p("string", "font"), p("int", "seconds")),
	sig("PrintDebug", "void", "Writes a message to the debug output", p("string", "text")),
	sig("IntToString", "string", "Converts an integer to a string", p("int", "x")),
	sig("FloatToString", "string", "Converts a float to a string", p("float", "x")),
	sig("IntToFloat", "float", "Converts an integer to a float", p("int", "x")),
	sig("FloatToInt", "int", "Truncates a float to an integer", p("float", "x")),
	sig("ConcatStrings", "string", "Concatenates two strings", p("string", "s1"), p("string", "s2")),

	// Inventory
	sig("CreateInvItems", "void", "Puts items into an NPC's inventory", p("C_NPC", "npc"), p("int", "itemInstance"), p("int", "amount")),
	sig("EquipItem", "void", "Creates and equips an item", p("C_NPC", "npc"), p("int", "itemInstance")),
}

// engineConstants are well-known engine constants offered for completion.
var engineConstants = []string{
	"GIL_NONE", "GIL_PAL", "GIL_MIL", "GIL_VLK", "GIL_KDF", "GIL_NOV", "GIL_SLD", "GIL_DJG", "GIL_BAU", "GIL_BDT",
	"ATR_HITPOINTS", "ATR_HITPOINTS_MAX", "ATR_MANA", "ATR_MANA_MAX", "ATR_STRENGTH", "ATR_DEXTERITY",
	"AIV_PARTYMEMBER", "AIV_TALKEDTOPLAYER", "AIV_MM_REAL_ID",
	"FAI_HUMAN_COWARD", "FAI_HUMAN_NORMAL", "FAI_HUMAN_STRONG", "FAI_HUMAN_MASTER",
	"NPC_TALENT_1H", "NPC_TALENT_2H", "NPC_TALENT_BOW", "NPC_TALENT_CROSSBOW",
	"NPC_FLAG_IMMORTAL", "NPCTYPE_MAIN", "NPCTYPE_AMBIENT",
	"PERC_ASSESSPLAYER", "PERC_ASSESSTALK", "PERC_ASSESSDAMAGE",
	"ITEM_KAT_NF", "ITEM_KAT_FF", "ITEM_KAT_POTIONS", "ITEM_MISSION",
	"LOG_MISSION", "LOG_NOTE", "LOG_RUNNING", "LOG_SUCCESS", "LOG_FAILED", "LOG_OBSOLETE",
}

var byName = func() map[string]*Signature {
	m := make(map[string]*Signature, len(signatures))
	for i := range signatures {
		m[strings.ToLower(signatures[i].Name)] = &signatures[i]
	}
	return m
}()

// GetBuiltinSignature returns the signature of an external function, or nil
// if the name is unknown. The lookup is case-insensitive.
func GetBuiltinSignature(functionName string) *Signature {
	return byName[strings.ToLower(functionName)]
}

// IsBuiltinFunction reports whether name is a cataloged external function.
func IsBuiltinFunction(functionName string) bool {
	return GetBuiltinSignature(functionName) != nil
}

// KnownFunctions is the default allow-list used to color calls as known.
func KnownFunctions() []string {
	names := make([]string, len(signatures))
	for i, s := range signatures {
		names[i] = s.Name
	}
	sort.Strings(names)
	return names
}

// EngineNames returns every cataloged function and constant name, sorted.
func EngineNames() []string {
	names := append(KnownFunctions(), engineConstants...)
	sort.Strings(names)
	return names
}

// Signatures returns a copy of the catalog.
func Signatures() []Signature {
	return append([]Signature(nil), signatures...)
}
