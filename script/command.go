// Package script implements the two event-script dialects: the flat
// command-per-line dialect and the indented dialect with native control
// flow. It produces Commands — the engine classifies and forwards them;
// what a command *does* (camera, dialogue, combat) belongs to the
// downstream executor.
package script

// Kind tags one command in the closed vocabulary. Command kinds must stay
// in sync with the downstream executor's dispatch table.
type Kind string

const (
	// Flow control. In the flat dialect these are ordinary commands the
	// downstream executor interprets procedurally; the indented dialect has
	// native control flow instead and never emits them.
	KindIf         Kind = "if"
	KindElif       Kind = "elif"
	KindElse       Kind = "else"
	KindEnd        Kind = "end"
	KindBreakEvent Kind = "break_event"
	KindWait       Kind = "wait"
	KindEndSkip    Kind = "end_skip"

	// Music and sound.
	KindMusic       Kind = "music"
	KindMusicClear  Kind = "music_clear"
	KindSound       Kind = "sound"
	KindStopSound   Kind = "stop_sound"
	KindChangeMusic Kind = "change_music"

	// Portraits.
	KindAddPortrait         Kind = "add_portrait"
	KindMultiAddPortrait    Kind = "multi_add_portrait"
	KindRemovePortrait      Kind = "remove_portrait"
	KindMultiRemovePortrait Kind = "multi_remove_portrait"
	KindRemoveAllPortraits  Kind = "remove_all_portraits"
	KindMovePortrait        Kind = "move_portrait"
	KindMirrorPortrait      Kind = "mirror_portrait"
	KindBopPortrait         Kind = "bop_portrait"
	KindExpression          Kind = "expression"

	// Dialogue.
	KindSpeak               Kind = "speak"
	KindSpeakStyle          Kind = "speak_style"
	KindUnhold              Kind = "unhold"
	KindUnpause             Kind = "unpause"
	KindNarrate             Kind = "narrate"
	KindToggleNarrationMode Kind = "toggle_narration_mode"
	KindPopDialog           Kind = "pop_dialog"

	// Background and transitions.
	KindBackground       Kind = "background"
	KindChangeBackground Kind = "change_background"
	KindTransition       Kind = "transition"

	// Cursor and camera.
	KindDispCursor    Kind = "disp_cursor"
	KindMoveCursor    Kind = "move_cursor"
	KindCenterCursor  Kind = "center_cursor"
	KindFlickerCursor Kind = "flicker_cursor"

	// Variables.
	KindGameVar     Kind = "game_var"
	KindIncGameVar  Kind = "inc_game_var"
	KindLevelVar    Kind = "level_var"
	KindIncLevelVar Kind = "inc_level_var"

	// Game flow.
	KindWinGame           Kind = "win_game"
	KindLoseGame          Kind = "lose_game"
	KindMainMenu          Kind = "main_menu"
	KindSkipSave          Kind = "skip_save"
	KindActivateTurnwheel Kind = "activate_turnwheel"
	KindBattleSave        Kind = "battle_save"

	// Units.
	KindAddUnit          Kind = "add_unit"
	KindMoveUnit         Kind = "move_unit"
	KindRemoveUnit       Kind = "remove_unit"
	KindKillUnit         Kind = "kill_unit"
	KindRemoveAllUnits   Kind = "remove_all_units"
	KindRemoveAllEnemies Kind = "remove_all_enemies"
	KindInteractUnit     Kind = "interact_unit"
	KindRecruitGeneric   Kind = "recruit_generic"
	KindSetName          Kind = "set_name"
	KindSetCurrentHP     Kind = "set_current_hp"
	KindSetCurrentMana   Kind = "set_current_mana"
	KindAddFatigue       Kind = "add_fatigue"
	KindResurrect        Kind = "resurrect"
	KindResetUnit        Kind = "reset_unit"
	KindHasAttacked      Kind = "has_attacked"
	KindHasTraded        Kind = "has_traded"
	KindHasFinished      Kind = "has_finished"

	// Groups.
	KindAddGroup    Kind = "add_group"
	KindSpawnGroup  Kind = "spawn_group"
	KindMoveGroup   Kind = "move_group"
	KindRemoveGroup Kind = "remove_group"

	// Items and resources.
	KindGiveItem    Kind = "give_item"
	KindRemoveItem  Kind = "remove_item"
	KindEquipItem   Kind = "equip_item"
	KindMoveItem    Kind = "move_item"
	KindSetItemUses Kind = "set_item_uses"
	KindGiveMoney   Kind = "give_money"
	KindGiveBexp    Kind = "give_bexp"
	KindGiveExp     Kind = "give_exp"
	KindSetExp      Kind = "set_exp"
	KindGiveWexp    Kind = "give_wexp"

	// Skills.
	KindGiveSkill   Kind = "give_skill"
	KindRemoveSkill Kind = "remove_skill"

	// Unit properties.
	KindChangeAI       Kind = "change_ai"
	KindChangeParty    Kind = "change_party"
	KindChangeFaction  Kind = "change_faction"
	KindChangeTeam     Kind = "change_team"
	KindChangePortrait Kind = "change_portrait"
	KindChangeStats    Kind = "change_stats"
	KindSetStats       Kind = "set_stats"
	KindAutolevelTo    Kind = "autolevel_to"
	KindPromote        Kind = "promote"
	KindChangeClass    Kind = "change_class"
	KindAddTag         Kind = "add_tag"
	KindRemoveTag      Kind = "remove_tag"

	// Talk, lore, base, market.
	KindAddTalk          Kind = "add_talk"
	KindRemoveTalk       Kind = "remove_talk"
	KindAddLore          Kind = "add_lore"
	KindRemoveLore       Kind = "remove_lore"
	KindAddBaseConvo     Kind = "add_base_convo"
	KindIgnoreBaseConvo  Kind = "ignore_base_convo"
	KindRemoveBaseConvo  Kind = "remove_base_convo"
	KindAddMarketItem    Kind = "add_market_item"
	KindRemoveMarketItem Kind = "remove_market_item"

	// Regions, layers, weather, map.
	KindAddRegion             Kind = "add_region"
	KindRegionCondition       Kind = "region_condition"
	KindRemoveRegion          Kind = "remove_region"
	KindShowLayer             Kind = "show_layer"
	KindHideLayer             Kind = "hide_layer"
	KindAddWeather            Kind = "add_weather"
	KindRemoveWeather         Kind = "remove_weather"
	KindChangeObjectiveSimple Kind = "change_objective_simple"
	KindChangeObjectiveWin    Kind = "change_objective_win"
	KindChangeObjectiveLoss   Kind = "change_objective_loss"
	KindSetPosition           Kind = "set_position"
	KindMapAnim               Kind = "map_anim"
	KindMergeParties          Kind = "merge_parties"
	KindArrangeFormation      Kind = "arrange_formation"

	// Screens and overlays.
	KindPrep          Kind = "prep"
	KindBase          Kind = "base"
	KindShop          Kind = "shop"
	KindChoice        Kind = "choice"
	KindChapterTitle  Kind = "chapter_title"
	KindAlert         Kind = "alert"
	KindVictoryScreen Kind = "victory_screen"
	KindRecordsScreen Kind = "records_screen"
	KindLocationCard  Kind = "location_card"
	KindCredits       Kind = "credits"
	KindEnding        Kind = "ending"

	// Unlocks.
	KindUnlock      Kind = "unlock"
	KindFindUnlock  Kind = "find_unlock"
	KindSpendUnlock Kind = "spend_unlock"

	// Misc.
	KindTriggerScript     Kind = "trigger_script"
	KindLoopUnits         Kind = "loop_units"
	KindChangeRoaming     Kind = "change_roaming"
	KindChangeRoamingUnit Kind = "change_roaming_unit"
	KindCleanUpRoaming    Kind = "clean_up_roaming"
	KindAddToInitiative   Kind = "add_to_initiative"
	KindMoveInInitiative  Kind = "move_in_initiative"
	KindPairUp            Kind = "pair_up"
	KindSeparate          Kind = "separate"
)

// allKinds enumerates the closed vocabulary. Validation goes through
// validKinds so an unknown tag is a lookup miss, not a panic.
var allKinds = []Kind{
	KindIf, KindElif, KindElse, KindEnd, KindBreakEvent, KindWait, KindEndSkip,
	KindMusic, KindMusicClear, KindSound, KindStopSound, KindChangeMusic,
	KindAddPortrait, KindMultiAddPortrait, KindRemovePortrait,
	KindMultiRemovePortrait, KindRemoveAllPortraits, KindMovePortrait,
	KindMirrorPortrait, KindBopPortrait, KindExpression,
	KindSpeak, KindSpeakStyle, KindUnhold, KindUnpause, KindNarrate,
	KindToggleNarrationMode, KindPopDialog,
	KindBackground, KindChangeBackground, KindTransition,
	KindDispCursor, KindMoveCursor, KindCenterCursor, KindFlickerCursor,
	KindGameVar, KindIncGameVar, KindLevelVar, KindIncLevelVar,
	KindWinGame, KindLoseGame, KindMainMenu, KindSkipSave,
	KindActivateTurnwheel, KindBattleSave,
	KindAddUnit, KindMoveUnit, KindRemoveUnit, KindKillUnit,
	KindRemoveAllUnits, KindRemoveAllEnemies, KindInteractUnit,
	KindRecruitGeneric, KindSetName, KindSetCurrentHP, KindSetCurrentMana,
	KindAddFatigue, KindResurrect, KindResetUnit, KindHasAttacked,
	KindHasTraded, KindHasFinished,
	KindAddGroup, KindSpawnGroup, KindMoveGroup, KindRemoveGroup,
	KindGiveItem, KindRemoveItem, KindEquipItem, KindMoveItem,
	KindSetItemUses, KindGiveMoney, KindGiveBexp, KindGiveExp, KindSetExp,
	KindGiveWexp,
	KindGiveSkill, KindRemoveSkill,
	KindChangeAI, KindChangeParty, KindChangeFaction, KindChangeTeam,
	KindChangePortrait, KindChangeStats, KindSetStats, KindAutolevelTo,
	KindPromote, KindChangeClass, KindAddTag, KindRemoveTag,
	KindAddTalk, KindRemoveTalk, KindAddLore, KindRemoveLore,
	KindAddBaseConvo, KindIgnoreBaseConvo, KindRemoveBaseConvo,
	KindAddMarketItem, KindRemoveMarketItem,
	KindAddRegion, KindRegionCondition, KindRemoveRegion,
	KindShowLayer, KindHideLayer, KindAddWeather, KindRemoveWeather,
	KindChangeObjectiveSimple, KindChangeObjectiveWin, KindChangeObjectiveLoss,
	KindSetPosition, KindMapAnim, KindMergeParties, KindArrangeFormation,
	KindPrep, KindBase, KindShop, KindChoice, KindChapterTitle, KindAlert,
	KindVictoryScreen, KindRecordsScreen, KindLocationCard, KindCredits,
	KindEnding,
	KindUnlock, KindFindUnlock, KindSpendUnlock,
	KindTriggerScript, KindLoopUnits, KindChangeRoaming,
	KindChangeRoamingUnit, KindCleanUpRoaming, KindAddToInitiative,
	KindMoveInInitiative, KindPairUp, KindSeparate,
}

// aliases maps short author mnemonics to canonical kinds. Resolved before
// vocabulary validation, built once at startup.
var aliases = map[string]Kind{
	"s":           KindSpeak,
	"e":           KindExpression,
	"u":           KindAddPortrait,
	"uu":          KindMultiAddPortrait,
	"r":           KindRemovePortrait,
	"rr":          KindMultiRemovePortrait,
	"b":           KindBackground,
	"cb":          KindChangeBackground,
	"t":           KindTransition,
	"m":           KindMusic,
	"bop":         KindBopPortrait,
	"add":         KindAddUnit,
	"move":        KindMoveUnit,
	"remove":      KindRemoveUnit,
	"kill":        KindKillUnit,
	"interact":    KindInteractUnit,
	"set_cursor":  KindMoveCursor,
	"highlight":   KindFlickerCursor,
	"unlock_lore": KindAddLore,
	"break":       KindBreakEvent,
	"trigger":     KindTriggerScript,
	"gold":        KindGiveMoney,
	"exp":         KindGiveExp,
}

var validKinds = func() map[Kind]bool {
	m := make(map[Kind]bool, len(allKinds))
	for _, k := range allKinds {
		m[k] = true
	}
	return m
}()

// ResolveKind maps a raw tag through the alias table and validates it
// against the closed vocabulary. ok is false for anything unrecognized.
func ResolveKind(tag string) (Kind, bool) {
	if k, ok := aliases[tag]; ok {
		return k, true
	}
	k := Kind(tag)
	return k, validKinds[k]
}

// Command is one executable instruction extracted from a script. The
// payload is opaque to this subsystem; the downstream executor interprets
// the args for each kind.
type Command struct {
	Kind  Kind     `json:"kind"`
	Args  []string `json:"args,omitempty"`
	Flags []string `json:"flags,omitempty"`
}
