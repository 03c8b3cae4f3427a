package term

import (
	"context"
	"fmt"
	"sort"
)

// Restore relaunches the sessions recorded by the store, rebuilding groups in
// their saved order. Records whose shell fails to start are dropped from the
// store rather than aborting the whole restore.
func (s *Service) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	records, err := s.store.ListInstances(ctx)
	if err != nil {
		return fmt.Errorf("restore sessions: %w", err)
	}
	if len(records) == 0 {
		return nil
	}
	byGroup := make(map[string][]SessionRecord)
	groupOrder := make([]string, 0)
	for _, rec := range records {
		if _, seen := byGroup[rec.GroupID]; !seen {
			groupOrder = append(groupOrder, rec.GroupID)
		}
		byGroup[rec.GroupID] = append(byGroup[rec.GroupID], rec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	restored := 0
	for _, gid := range groupOrder {
		recs := byGroup[gid]
		sort.Slice(recs, func(i, j int) bool { return recs[i].GroupPos < recs[j].GroupPos })
		members := make([]string, 0, len(recs))
		for _, rec := range recs {
			inst := &instance{
				id:    rec.ID,
				title: rec.Title,
				icon:  rec.Icon,
				color: rec.Color,
				launch: ShellLaunchConfig{
					Executable: rec.Shell,
					Args:       rec.Args,
					Cwd:        rec.Cwd,
					Type:       ShellType(rec.Type),
				},
				resource: rec.Cwd,
				groupID:  gid,
			}
			inst.runner = s.newRunner(inst.launch, func(err error) { s.onRunnerExit(rec.ID, err) })
			if err := inst.runner.Start(ctx); err != nil {
				s.log.Warn("session restore skipped", "instance", rec.ID, "err", err)
				if derr := s.store.DeleteInstance(ctx, rec.ID); derr != nil {
					s.log.Warn("stale session delete failed", "instance", rec.ID, "err", derr)
				}
				continue
			}
			inst.ready = true
			s.instances[inst.id] = inst
			s.order = append(s.order, inst.id)
			members = append(members, inst.id)
			restored++
		}
		if len(members) > 0 {
			s.groups[gid] = &group{id: gid, members: members}
		}
	}
	if restored > 0 {
		if s.active == "" {
			s.setActiveLocked(s.order[0])
		}
		s.emit(Event{Kind: EventInstancesChanged})
	}
	s.log.Info("sessions restored", "count", restored)
	return nil
}
