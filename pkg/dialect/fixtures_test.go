package dialect

const cplexLog = `Log started (V12.5.1.0) Mon Jan 01 10:00:00 2018

Welcome to IBM(R) ILOG(R) CPLEX(R) Interactive Optimizer 12.5.1.0
  with Simplex, Mixed Integer & Barrier Optimizers
Old run, should be ignored.
Reduced MIP has 1 rows, 1 columns, and 1 nonzeros.

Welcome to IBM(R) ILOG(R) CPLEX(R) Interactive Optimizer 12.6.0.0
  with Simplex, Mixed Integer & Barrier Optimizers
Tried aggregator 1 time.
LP Presolve eliminated 3 rows and 2 columns.
Reduced MIP has 100 rows, 50 columns, and 400 nonzeros.
Presolve time = 0.01 sec. (0.50 ticks)
Reduced MIP has 90 rows, 45 columns, and 380 nonzeros.
Root relaxation solution time = 0.02 sec. (1.20 ticks)

        Nodes                                         Cuts/
   Node  Left     Objective  IInf  Best Integer    Best Bound    ItCnt     Gap

      0     0      104.0000    20                    104.0000       45
*     0+    0                          100.0000      104.0000       45    4.00%
      0     0      103.5000    18      100.0000      Cuts: 12       60    3.50%
      0     2      103.5000    18      100.0000      103.5000       60    3.50%
Elapsed time = 0.50 sec. (10.00 ticks, tree = 0.01 MB, solutions = 1)
     10     5      102.0000     4      100.0000      103.0000      200    3.00%
*    20     0      integral     0      101.0000      101.0000      250    0.00%

Gomory fractional cuts applied:  5
Mixed integer rounding cuts applied:  7

Total (root+branch&cut) =    1.00 sec. (20.00 ticks)

MIP - Integer optimal solution:  Objective =  1.0100000000e+02
Solution time =    1.00 sec.  Iterations = 250  Nodes = 20
`

const cplexTimeLimitLog = `Welcome to IBM(R) ILOG(R) CPLEX(R) Interactive Optimizer 12.6.0.0

   Node  Left     Objective  IInf  Best Integer    Best Bound    ItCnt     Gap

      0     0      104.0000    20                    104.0000       45
    100    50      102.0000     4      100.0000      103.0000      200    3.00%

MIP - Time limit exceeded, integer feasible:  Objective =  1.0000000000e+02
Current MIP best bound =  1.0300000000e+02 (gap = 3, 3.00%)
Solution time =   60.00 sec.  Iterations = 5000  Nodes = 100 (50)
`

const gurobiLog = `Gurobi Optimizer version 9.1.2 build v9.1.2rc0 (linux64)
Thread count: 4 physical cores, 8 logical processors, using up to 8 threads
Optimize a model with 120 rows, 60 columns and 480 nonzeros
Variable types: 0 continuous, 60 integer (60 binary)
Presolve removed 20 rows and 10 columns
Presolve time: 0.05s
Presolved: 100 rows, 50 columns, 400 nonzeros

Root relaxation: objective -2.300000e+01, 45 iterations, 0.01 seconds

    Nodes    |    Current Node    |     Objective Bounds      |     Work
 Expl Unexpl |  Obj  Depth IntInf | Incumbent    BestBd   Gap | It/Node Time

     0     0  -23.00000    0   12          -  -23.00000      -     -    0s
H    0     0                     -10.0000000  -23.00000   130%     -    0s
     0     0  -22.50000    0   14  -10.00000  -22.50000   125%     -    0s
     0     2  -22.50000    0   14  -10.00000  -22.50000   125%     -    1s
  1000   500  -18.00000   20   10  -15.00000  -19.00000  26.7%   4.0    5s

Cutting planes:
  Gomory: 2
  MIR: 5

Explored 1234 nodes (5678 simplex iterations) in 10.50 seconds
Thread count was 4 (of 4 available processors)

Solution count 3: -15 -10 -5

Optimal solution found (tolerance 1.00e-04)
Best objective -1.500000000000e+01, best bound -1.500000000000e+01, gap 0.0000%
`

const gurobiInfeasibleLog = `Gurobi Optimizer version 9.1.2 build v9.1.2rc0 (linux64)
Optimize a model with 10 rows, 5 columns and 20 nonzeros
Presolve time: 0.00s

Explored 0 nodes (0 simplex iterations) in 0.01 seconds
Thread count was 1 (of 4 available processors)

Solution count 0

Model is infeasible
Best objective -, best bound -, gap -
`

const cbcLog = `Welcome to the CBC MILP Solver
Version: 2.10.3
Build Date: Jan  1 2020

command line - cbc model.mps solve
Problem MODEL has 200 rows, 100 columns and 800 elements
Cgl0004I processed model has 180 rows, 95 columns (95 integer (90 of which binary)) and 750 elements
Cbc0010I After 0 nodes, 1 on tree, 1e+50 best solution, best possible 38000 (1.20 seconds)
Cbc0010I After 100 nodes, 40 on tree, 39000 best solution, best possible 38500 (50.00 seconds)
Cbc0010I After 200 nodes, 35 on tree, 38752 best solution, best possible 38700 (100.00 seconds)
Cbc0001I Search completed - best objective 38752, took 1000 iterations and 500 nodes (725.37 seconds)

Result - Optimal solution found

Objective value:                38752.00000000
Enumerated nodes:               378472
Total iterations:               1000
Time (CPU seconds):             725.40
`

const cbcInfeasibleLog = `Welcome to the CBC MILP Solver
Version: 2.10.3
Problem MODEL has 10 rows, 5 columns and 20 elements
Problem is infeasible - 0.01 seconds
`

const cpsatLog = `Starting CP-SAT solver v9.3.10497
Parameters: log_search_progress: true

Starting Search at 0.01s with 8 workers.
#Bound   0.02s best:inf   next:[0,100]    initial_domain
#1       0.03s best:50    next:[0,49]     fixed_bools:0/10
#2       0.05s best:30    next:[0,29]     quick_restart
#Bound   0.06s best:30    next:[15,29]    max_lp
#3       1.10s best:15    next:[15,14]    core
#Done    3.59s core

CpSolverResponse summary:
status: OPTIMAL
objective: 15
best_bound: 15
walltime: 3.6
usertime: 3.5908
`
