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

package database

const (
	// ActivityLogin is the activity type for a successful login
	ActivityLogin = "LOGIN"
	// ActivityLogout is the activity type for a logout
	ActivityLogout = "LOGOUT"
	// ActivityNavigation is the activity type for a menu navigation
	ActivityNavigation = "NAVIGATION"
	// ActivityPageUnload is the activity type for a page being closed
	ActivityPageUnload = "PAGE_UNLOAD"
	// ActivityTest is the activity type used by access self-tests
	ActivityTest = "TEST"
)

const (
	// TableOnlineUsers is the presence table name used by the change feed
	TableOnlineUsers = "online_users"
	// TableActivityLogs is the audit table name used by the change feed
	TableActivityLogs = "activity_logs"
)
