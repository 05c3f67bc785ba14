package dummydb

import (
	"strconv"
	"sync"

	"github.com/ViNit736/GFM-record-management-app-sub001/core/attendance"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/comms"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/roster"
	"github.com/ViNit736/GFM-record-management-app-sub001/core/user"
)

type (
	DB struct {
		user       *userTable
		roster     *rosterTables
		attendance *attendanceTables
		comms      *commsTables
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	rosterTables struct {
		sync.RWMutex
		students map[string]*roster.Student
		defs     map[string]*roster.BatchDefinition
		allocs   map[string]*roster.TeacherBatchConfig // keyed on TeacherID
	}

	attendanceTables struct {
		sync.RWMutex
		sessions map[string]*attendance.AttendanceSession
		records  map[string]*attendance.AttendanceRecord // keyed on sessionID|PRN
	}

	commsTables struct {
		sync.RWMutex
		logs   map[string]*comms.CommunicationLog
		leaves map[string]*comms.PreInformedAbsence
	}
)

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
		roster: &rosterTables{
			students: make(map[string]*roster.Student),
			defs:     make(map[string]*roster.BatchDefinition),
			allocs:   make(map[string]*roster.TeacherBatchConfig),
		},
		attendance: &attendanceTables{
			sessions: make(map[string]*attendance.AttendanceSession),
			records:  make(map[string]*attendance.AttendanceRecord),
		},
		comms: &commsTables{
			logs:   make(map[string]*comms.CommunicationLog),
			leaves: make(map[string]*comms.PreInformedAbsence),
		},
	}
	return db, nil
}

var (
	pkMu    sync.Mutex
	pkCount int
)

func nextPK() string {
	pkMu.Lock()
	defer pkMu.Unlock()
	pkCount++
	return strconv.Itoa(pkCount)
}
