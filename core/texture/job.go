package texture

import (
	"fmt"
	"sort"
)

// OpKind identifies the instruction carried by an Op.
type OpKind int

const (
	// OpApply applies a texture config to a group.
	OpApply OpKind = iota + 1
	// OpRemove removes the texture of a group.
	OpRemove
)

// String returns the op kind name.
func (k OpKind) String() string {
	switch k {
	case OpApply:
		return "apply"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("op(%d)", int(k))
	}
}

// Op is a single group instruction. Config is only set for OpApply.
type Op struct {
	Kind   OpKind
	Config *Config
}

// Apply returns an apply instruction for cfg.
func Apply(cfg Config) Op {
	return Op{Kind: OpApply, Config: &cfg}
}

// Remove returns a remove instruction.
func Remove() Op {
	return Op{Kind: OpRemove}
}

// Job is a batch of group instructions derived from one Diff.
type Job map[string]Op

// Empty reports whether the job has no instructions.
func (j Job) Empty() bool {
	return len(j) == 0
}

// Groups returns the job's group names in sorted order.
func (j Job) Groups() []string {
	groups := make([]string, 0, len(j))
	for g := range j {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// BuildJob turns a diff into a job using the configs of the desired map.
// Created and Modified groups are applied, unless their desired config is nil in
// which case the group is cleared. Deleted groups are cleared.
func BuildJob(diff Diff, textures Map) Job {
	job := make(Job, len(diff))
	for group, change := range diff {
		switch change {
		case Created, Modified:
			cfg, ok := textures[group]
			if !ok || cfg == nil {
				job[group] = Remove()
				continue
			}
			job[group] = Apply(*cfg)
		case Deleted:
			job[group] = Remove()
		default:
			panic(fmt.Sprintf("texture: unhandled change %v for group %q", change, group))
		}
	}
	return job
}
