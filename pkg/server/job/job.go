/* Copyright 2025 Matcal Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package job schedules the recurring background work of the server
package job

import (
	"time"

	"github.com/matcal/matcal/pkg/server/app"
	"github.com/matcal/matcal/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

// staleCutoff is how long a presence row may go unrefreshed before the
// sweeper removes it. It is deliberately wider than the online window so
// rows linger for the listing before being garbage collected.
const staleCutoff = 10 * time.Minute

// Schedule starts the background jobs and returns the running scheduler
func Schedule(a *app.App) (*cron.Cron, error) {
	c := cron.New()

	err := c.AddFunc("@every 1m", func() {
		pruned, err := a.PruneStalePresence(staleCutoff)
		if err != nil {
			log.ErrorWrap(err, "pruning stale presence rows")
			return
		}

		if pruned > 0 {
			log.WithFields(log.Fields{
				"count": pruned,
			}).Info("pruned stale presence rows")
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "scheduling presence sweeper")
	}

	c.Start()

	return c, nil
}
