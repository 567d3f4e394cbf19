// Package command implements the inbound command stream (Section 6):
// a single ordered channel of tagged command variants, applied in FIFO
// order at the start of each tick (Section 4.1 step 1).
package command

import "github.com/talgya/agentforge/internal/worldstate"

// Kind tags which variant a Command carries.
type Kind uint8

const (
	KindSetTimeScale Kind = iota
	KindApplyResourceDelta
	KindGatherResource
	KindGiveResource
	KindSpawnAgent
	KindKillAgent
	KindAgentCommand
	KindNeedsCommand
	KindSocialCommand
	KindBuildingCommand
	KindTaskCommand
	KindTimeCommand
	KindSaveGame
)

// NeedsSubcommand distinguishes the NEEDS_COMMAND payload variants.
type NeedsSubcommand uint8

const (
	NeedsSatisfy NeedsSubcommand = iota
	NeedsModify
	NeedsUpdateConfig
)

// SocialSubcommand distinguishes the SOCIAL_COMMAND payload variants.
type SocialSubcommand uint8

const (
	SocialImposeTruce SocialSubcommand = iota
	SocialSetAffinity
	SocialModifyAffinity
	SocialFriendlyInteraction
	SocialHostileEncounter
	SocialRemoveRelationships
)

// BuildingSubcommand distinguishes the BUILDING_COMMAND payload variants.
type BuildingSubcommand uint8

const (
	BuildingStartUpgrade BuildingSubcommand = iota
	BuildingCancelUpgrade
	BuildingEnqueueConstruction
	BuildingConstruct
)

// TaskSubcommand distinguishes the TASK_COMMAND payload variants.
type TaskSubcommand uint8

const (
	TaskCreate TaskSubcommand = iota
	TaskContribute
	TaskRemove
)

// Command is a tagged variant of every recognised inbound command
// (Section 6). Only the fields relevant to Kind are populated; the rest
// are zero. Submitter is the requesting client, used for ERROR replies.
type Command struct {
	Kind      Kind
	Submitter string

	TimeScaleMultiplier float64

	ResourceKind  worldstate.ResourceKind
	ResourceDelta int

	ResourceID worldstate.ResourceID
	Amount     int

	AgentID worldstate.AgentID
	Profile worldstate.AgentProfile
	HasProfile bool

	AgentSubcommand string
	Payload         map[string]string

	NeedsSub  NeedsSubcommand
	NeedKind  worldstate.NeedKind
	NeedValue float64

	SocialSub   SocialSubcommand
	OtherAgent  worldstate.AgentID
	Affinity    float64

	BuildingSub BuildingSubcommand
	ZoneID      worldstate.ZoneID

	TaskSub TaskSubcommand
	TaskID  string

	WeatherType string

	SaveTimestamp int64
}
